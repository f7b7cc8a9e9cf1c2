// Package scrape classifies job posting URLs and extracts structured fields
// from their server-rendered HTML.
package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Job holds the fields extracted from one posting. Fields that could not be
// located are empty strings, never absent; JobURL is always the input URL.
type Job struct {
	Company  string
	Position string
	Location string
	JobURL   string
	Salary   string
	Notes    string
}

// Notes are a short excerpt, not the full description. The generic extractor
// uses a tighter bound since its selectors are low-confidence.
const (
	noteLimit        = 1000
	genericNoteLimit = 600
)

// Extract parses body and runs the extraction rule-set for site.
// Missing fields degrade to empty strings; only an unparseable document is
// an error.
func Extract(site Site, body []byte, srcURL string) (Job, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Job{}, fmt.Errorf("parse page: %w", err)
	}

	var job Job
	switch site {
	case SiteGreenhouse:
		job = extractGreenhouse(doc)
	case SiteLinkedIn:
		job = extractLinkedIn(doc)
	case SiteIndeed:
		job = extractIndeed(doc)
	case SiteHandshake:
		job = extractHandshake(doc)
	default:
		job = extractGeneric(doc)
	}
	job.JobURL = srcURL
	return job, nil
}

// candidate produces one possible value for a field; an empty result means
// "not found here, try the next candidate".
type candidate func(doc *goquery.Document) string

// firstOf evaluates candidates in order and returns the first non-empty
// cleaned result. All fields on all sites resolve through this chain.
func firstOf(doc *goquery.Document, candidates ...candidate) string {
	for _, c := range candidates {
		if v := Clean(c(doc)); v != "" {
			return v
		}
	}
	return ""
}

func text(selector string) candidate {
	return func(doc *goquery.Document) string {
		return doc.Find(selector).First().Text()
	}
}

func lastText(selector string) candidate {
	return func(doc *goquery.Document) string {
		return doc.Find(selector).Last().Text()
	}
}

func meta(selector string) candidate {
	return func(doc *goquery.Document) string {
		content, _ := doc.Find(selector).First().Attr("content")
		return content
	}
}

// childText selects the n-th (zero-based) child element of the first match.
func childText(selector string, n int) candidate {
	return func(doc *goquery.Document) string {
		return doc.Find(selector).First().Children().Eq(n).Text()
	}
}

// joinedText concatenates the text of all matches, space separated.
func joinedText(selector string) candidate {
	return func(doc *goquery.Document) string {
		var parts []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if t := Clean(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, " ")
	}
}

// siblingAfterLabel finds the element immediately following the innermost
// node whose text contains one of the labels. Wrapper elements whose
// descendants carry the label are skipped.
func siblingAfterLabel(labels ...string) candidate {
	return func(doc *goquery.Document) string {
		var out string
		doc.Find("div, span, dt, h2, h3, h4, strong, b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !containsAny(s.Text(), labels) {
				return true
			}
			if containsAny(s.Children().Text(), labels) {
				return true
			}
			if v := Clean(s.Next().Text()); v != "" {
				out = v
				return false
			}
			return true
		})
		return out
	}
}

func containsAny(s string, labels []string) bool {
	for _, label := range labels {
		if strings.Contains(s, label) {
			return true
		}
	}
	return false
}
