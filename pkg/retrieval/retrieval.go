// Package retrieval returns ranked, diversity-aware passages for a query.
package retrieval

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is returned when no knowledge base is configured.
var ErrUnavailable = errors.New("knowledge base unavailable")

// Passage is one retrieved piece of a source document.
type Passage struct {
	Text     string  `json:"text"`
	SourceID string  `json:"source_id"`
	Page     *int    `json:"page,omitempty"`
	Score    float64 `json:"score"`
}

// PageLabel renders the page number for citations, "N/A" when unknown.
func (p Passage) PageLabel() string {
	if p.Page == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *p.Page)
}

// Provider returns at most k passages ranked by relevance with near
// duplicates removed. An empty result is not an error.
type Provider interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}
