// Package notion implements the tracker store on top of the Notion API.
package notion

import (
	"context"
	"fmt"
	"time"

	gnt "github.com/dstotijn/go-notion"

	"github.com/tobyns/jobsync/internal/reconcile"
)

// Property names in the tracker database. The reconciler depends on these
// exactly; a database with a different schema fails at the API.
const (
	propCompanyName = "Company Name"
	propPosition    = "Position"
	propLocation    = "Location"
	propJobURL      = "Job URL"
	propSalary      = "Salary"
	propNotes       = "Notes"
	propStatus      = "Status"
	propAppliedDate = "Applied Date"
	propApplied     = "Applied"
)

const dateLayout = "2006-01-02"

// Error wraps a failed store call with the operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("notion %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Client talks to one tracker database.
type Client struct {
	api        *gnt.Client
	databaseID string
}

// New builds a Client for the given integration token and database.
func New(token, databaseID string) *Client {
	return &Client{
		api:        gnt.NewClient(token),
		databaseID: databaseID,
	}
}

// FindByURL looks up an existing row whose Job URL equals url exactly.
// Page size 1: pre-existing duplicates are not deduplicated, the first
// match wins.
func (c *Client) FindByURL(ctx context.Context, url string) (string, bool, error) {
	resp, err := c.api.QueryDatabase(ctx, c.databaseID, &gnt.DatabaseQuery{
		Filter: &gnt.DatabaseQueryFilter{
			Property: propJobURL,
			DatabaseQueryPropertyFilter: gnt.DatabaseQueryPropertyFilter{
				URL: &gnt.TextPropertyFilter{Equals: url},
			},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", false, &Error{Op: "query", Err: err}
	}
	if len(resp.Results) == 0 {
		return "", false, nil
	}
	return resp.Results[0].ID, true, nil
}

// CreateRecord adds a new row to the tracker database.
func (c *Client) CreateRecord(ctx context.Context, rec reconcile.Record) (string, error) {
	props, err := buildProperties(rec)
	if err != nil {
		return "", &Error{Op: "create", Err: err}
	}
	page, err := c.api.CreatePage(ctx, gnt.CreatePageParams{
		ParentType:             gnt.ParentTypeDatabase,
		ParentID:               c.databaseID,
		DatabasePageProperties: &props,
	})
	if err != nil {
		return "", &Error{Op: "create", Err: err}
	}
	return page.ID, nil
}

// UpdateRecord overwrites the given row's properties in place. Properties
// absent from rec (the Applied pair) are left untouched.
func (c *Client) UpdateRecord(ctx context.Context, rowID string, rec reconcile.Record) error {
	props, err := buildProperties(rec)
	if err != nil {
		return &Error{Op: "update", Err: err}
	}
	if _, err := c.api.UpdatePage(ctx, rowID, gnt.UpdatePageParams{
		DatabasePageProperties: props,
	}); err != nil {
		return &Error{Op: "update", Err: err}
	}
	return nil
}

// richText builds a valid Notion rich_text slice from a plain string.
func richText(s string) []gnt.RichText {
	return []gnt.RichText{
		{Text: &gnt.Text{Content: s}},
	}
}

func buildProperties(rec reconcile.Record) (gnt.DatabasePageProperties, error) {
	props := gnt.DatabasePageProperties{
		propCompanyName: gnt.DatabasePageProperty{Title: richText(rec.Title)},
		propPosition:    gnt.DatabasePageProperty{RichText: richText(rec.Position)},
		propLocation:    gnt.DatabasePageProperty{RichText: richText(rec.Location)},
		propSalary:      gnt.DatabasePageProperty{RichText: richText(rec.Salary)},
		propNotes:       gnt.DatabasePageProperty{RichText: richText(rec.Notes)},
		propJobURL:      gnt.DatabasePageProperty{URL: &rec.JobURL},
		propStatus: gnt.DatabasePageProperty{
			Select: &gnt.SelectOptions{Name: rec.Status},
		},
	}

	// The Applied pair is written only when an applied date resolved;
	// omitting the keys keeps stored values intact on update.
	if rec.AppliedDate != nil {
		t, err := time.Parse(dateLayout, *rec.AppliedDate)
		if err != nil {
			return nil, fmt.Errorf("applied date %q: %w", *rec.AppliedDate, err)
		}
		applied := true
		props[propAppliedDate] = gnt.DatabasePageProperty{
			Date: &gnt.Date{Start: gnt.NewDateTime(t, false)},
		}
		props[propApplied] = gnt.DatabasePageProperty{Checkbox: &applied}
	}

	return props, nil
}
