package search

import (
	"context"
)

// Candidate is a single named recipe reference eligible for matching.
type Candidate struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Source string `json:"-"` // provider name for observability
}

// Provider supplies the ordered candidate list for a query. A provider may be
// a live search endpoint or a static listing; callers treat it as opaque.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
	Name() string
}
