package model

import (
	"time"

	"github.com/MartinEBravo/duech-go/internal/search/facet"
)

// Status is the editorial lifecycle state of a dictionary entry.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusInReview  Status = "in_review"
	StatusPublished Status = "published"
)

// Statuses lists every lifecycle state, in workflow order.
func Statuses() []Status {
	return []Status{StatusDraft, StatusInReview, StatusPublished}
}

// MatchType records how a result matched the search request.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchFilter  MatchType = "filter"
)

type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sense is a single numbered acceptation of a word, carrying the facet
// annotations the search surface filters and aggregates on.
type Sense struct {
	Model
	ID         int64
	WordID     int64
	Num        int
	Definition string
	Category   string
	Origin     string
	Markers    map[facet.Marker]string
}

type Word struct {
	Model
	ID         int64
	Lemma      string
	Letter     string
	Status     Status
	AssignedTo string
	CreatedBy  string
	Senses     []Sense
}

// SearchResultItem is the per-query projection of a word; never persisted.
type SearchResultItem struct {
	Word      Word
	MatchType MatchType
}

// FacetMetadata holds the distinct values available per facet dimension,
// computed over the full store regardless of the current filter selection.
type FacetMetadata struct {
	Categories []string
	Origins    []string
	Markers    map[facet.Marker][]string
}

// WordOfDay is the deterministic daily pick.
type WordOfDay struct {
	Word   Word
	Letter string
}
