package store

import (
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/MartinEBravo/duech-go/internal/search/query"
)

type SearchRequest struct {
	Filters     query.Filters
	StatusScope []model.Status
	Offset      int
	Limit       int
}

type SearchResponse struct {
	Items []model.SearchResultItem
	// Total is the number of matches before pagination, required for the
	// page math. Never len(Items).
	Total int
}

type GetByLemmaRequest struct {
	Lemma       string
	StatusScope []model.Status
}

type GetByLemmaResponse struct {
	Word model.Word
}

type LemmasByLetterRequest struct {
	Letter string
	Status model.Status
}

type LemmasByLetterResponse struct {
	// Words carry lemma, letter and status only; senses are not loaded.
	Words []model.Word
}
