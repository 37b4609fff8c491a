package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a lemma lookup matches no visible entry.
var ErrNotFound = errors.New("not found")

// ContentStore is the read-only content collaborator the search core runs
// against.
type ContentStore interface {
	Search(ctx context.Context, r SearchRequest) (SearchResponse, error)
	DistinctValues(ctx context.Context, column string) ([]string, error)
	GetByLemma(ctx context.Context, r GetByLemmaRequest) (GetByLemmaResponse, error)
	LemmasByLetter(ctx context.Context, r LemmasByLetterRequest) (LemmasByLetterResponse, error)
}
