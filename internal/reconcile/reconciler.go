// Package reconcile synchronizes one scraped job posting into the external
// tracker: it fetches the page, extracts fields for the detected site, and
// creates or updates the tracker row keyed by the canonical job URL.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tobyns/jobsync/internal/scrape"
)

const (
	defaultStatus = "Not Started"
	dateLayout    = "2006-01-02"
	// used as the row title when extraction found neither company nor position
	titleFallback = "Job"
)

// Fetcher retrieves the raw markup for a posting URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Store is the external tracker. FindByURL does an exact match on the stored
// Job URL and returns at most one row.
type Store interface {
	FindByURL(ctx context.Context, url string) (rowID string, found bool, err error)
	CreateRecord(ctx context.Context, rec Record) (rowID string, err error)
	UpdateRecord(ctx context.Context, rowID string, rec Record) error
}

// Options are the caller-supplied overrides for one sync.
type Options struct {
	Applied     bool
	Status      string
	AppliedDate string // YYYY-MM-DD; defaults to today when Applied is set
}

// Record is the full property set written to the store. AppliedDate nil
// means the Applied Date and Applied properties are omitted entirely, which
// leaves any stored values untouched on update.
type Record struct {
	Title       string
	Company     string
	Position    string
	Location    string
	Salary      string
	Notes       string
	JobURL      string
	Status      string
	AppliedDate *string
}

// Action tags the sync outcome.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Result reports what the sync did and to which row.
type Result struct {
	Action Action
	ID     string
}

// Syncer orchestrates fetch, extraction and the upsert against the store.
type Syncer struct {
	fetcher Fetcher
	store   Store
	log     *zap.Logger
	now     func() time.Time
}

// New builds a Syncer.
func New(fetcher Fetcher, store Store, log *zap.Logger) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		log:     log,
		now:     time.Now,
	}
}

// Sync runs one full synchronization for url. Extraction never fails on
// missing fields; fetch and store errors propagate unchanged, with no
// retries and no compensating writes.
func (s *Syncer) Sync(ctx context.Context, url string, opts Options) (Result, error) {
	appliedDate, err := s.effectiveAppliedDate(opts)
	if err != nil {
		return Result{}, err
	}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return Result{}, err
	}

	site := scrape.Classify(url)
	job, err := scrape.Extract(site, body, url)
	if err != nil {
		return Result{}, err
	}
	s.log.Debug("extracted job posting",
		zap.String("site", string(site)),
		zap.String("company", job.Company),
		zap.String("position", job.Position),
	)

	rec := buildRecord(job, effectiveStatus(opts), appliedDate)

	rowID, found, err := s.store.FindByURL(ctx, url)
	if err != nil {
		return Result{}, err
	}
	if found {
		if err := s.store.UpdateRecord(ctx, rowID, rec); err != nil {
			return Result{}, err
		}
		s.log.Info("updated tracker row", zap.String("row_id", rowID), zap.String("url", url))
		return Result{Action: ActionUpdated, ID: rowID}, nil
	}

	rowID, err = s.store.CreateRecord(ctx, rec)
	if err != nil {
		return Result{}, err
	}
	s.log.Info("created tracker row", zap.String("row_id", rowID), zap.String("url", url))
	return Result{Action: ActionCreated, ID: rowID}, nil
}

func effectiveStatus(opts Options) string {
	if opts.Status != "" {
		return opts.Status
	}
	return defaultStatus
}

// effectiveAppliedDate resolves the Applied/Applied Date pair: absent unless
// Applied is set, today when Applied is set without an explicit date.
func (s *Syncer) effectiveAppliedDate(opts Options) (*string, error) {
	if !opts.Applied {
		return nil, nil
	}
	if opts.AppliedDate == "" {
		d := s.now().Format(dateLayout)
		return &d, nil
	}
	t, err := time.Parse(dateLayout, opts.AppliedDate)
	if err != nil {
		return nil, fmt.Errorf("applied date %q: want YYYY-MM-DD: %w", opts.AppliedDate, err)
	}
	d := t.Format(dateLayout)
	return &d, nil
}

func buildRecord(job scrape.Job, status string, appliedDate *string) Record {
	title := job.Company
	if title == "" {
		title = job.Position
	}
	if title == "" {
		title = titleFallback
	}
	return Record{
		Title:       title,
		Company:     job.Company,
		Position:    job.Position,
		Location:    job.Location,
		Salary:      job.Salary,
		Notes:       job.Notes,
		JobURL:      job.JobURL,
		Status:      status,
		AppliedDate: appliedDate,
	}
}
