package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
	"github.com/MartinEBravo/duech-go/internal/search/facet"
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/MartinEBravo/duech-go/internal/search/query"
	"github.com/MartinEBravo/duech-go/internal/search/store"
	"github.com/MartinEBravo/duech-go/internal/search/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu sync.Mutex

	SearchFunc         func(ctx context.Context, r store.SearchRequest) (store.SearchResponse, error)
	DistinctValuesFunc func(ctx context.Context, column string) ([]string, error)
	GetByLemmaFunc     func(ctx context.Context, r store.GetByLemmaRequest) (store.GetByLemmaResponse, error)
	LemmasByLetterFunc func(ctx context.Context, r store.LemmasByLetterRequest) (store.LemmasByLetterResponse, error)

	searchCalls   []store.SearchRequest
	distinctCalls []string
	lemmaCalls    []store.GetByLemmaRequest
	letterCalls   []store.LemmasByLetterRequest
}

func (m *mockStore) Search(ctx context.Context, r store.SearchRequest) (store.SearchResponse, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, r)
	m.mu.Unlock()

	if m.SearchFunc == nil {
		return store.SearchResponse{Items: []model.SearchResultItem{}}, nil
	}
	return m.SearchFunc(ctx, r)
}

func (m *mockStore) DistinctValues(ctx context.Context, column string) ([]string, error) {
	m.mu.Lock()
	m.distinctCalls = append(m.distinctCalls, column)
	m.mu.Unlock()

	if m.DistinctValuesFunc == nil {
		return nil, nil
	}
	return m.DistinctValuesFunc(ctx, column)
}

func (m *mockStore) GetByLemma(ctx context.Context, r store.GetByLemmaRequest) (store.GetByLemmaResponse, error) {
	m.mu.Lock()
	m.lemmaCalls = append(m.lemmaCalls, r)
	m.mu.Unlock()

	if m.GetByLemmaFunc == nil {
		return store.GetByLemmaResponse{}, store.ErrNotFound
	}
	return m.GetByLemmaFunc(ctx, r)
}

func (m *mockStore) LemmasByLetter(ctx context.Context, r store.LemmasByLetterRequest) (store.LemmasByLetterResponse, error) {
	m.mu.Lock()
	m.letterCalls = append(m.letterCalls, r)
	m.mu.Unlock()

	if m.LemmasByLetterFunc == nil {
		return store.LemmasByLetterResponse{}, nil
	}
	return m.LemmasByLetterFunc(ctx, r)
}

func TestSearch(t *testing.T) {
	items := []model.SearchResultItem{
		{Word: model.Word{ID: 1, Lemma: "guagua", Letter: "g", Status: model.StatusPublished}, MatchType: model.MatchExact},
	}
	ms := &mockStore{
		SearchFunc: func(ctx context.Context, r store.SearchRequest) (store.SearchResponse, error) {
			return store.SearchResponse{Items: items, Total: 45}, nil
		},
	}

	srv := NewSearchService(ms)
	resp, err := srv.Search(context.Background(), SearchRequest{
		Filters: query.Filters{Query: "guagua"},
		Page:    query.Page{Number: 3, Limit: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, items, resp.Results)
	assert.Equal(t, 45, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)

	require.Len(t, ms.searchCalls, 1)
	call := ms.searchCalls[0]
	assert.Equal(t, []model.Status{model.StatusPublished}, call.StatusScope)
	assert.Equal(t, 40, call.Offset)
	assert.Equal(t, 20, call.Limit)
}

func TestSearch_EditorModeScope(t *testing.T) {
	ms := &mockStore{}

	srv := NewSearchService(ms)
	_, err := srv.Search(context.Background(), SearchRequest{
		Page:       query.Page{Number: 1, Limit: 20},
		Visibility: visibility.Context{EditorMode: true, Role: "editor"},
	})
	require.NoError(t, err)

	require.Len(t, ms.searchCalls, 1)
	assert.Equal(t, model.Statuses(), ms.searchCalls[0].StatusScope)
}

func TestSearch_MetaOnly(t *testing.T) {
	ms := &mockStore{
		DistinctValuesFunc: func(ctx context.Context, column string) ([]string, error) {
			return []string{"rural"}, nil
		},
	}

	srv := NewSearchService(ms)
	resp, err := srv.Search(context.Background(), SearchRequest{
		Filters:  query.Filters{Query: "algo"},
		Page:     query.Page{Number: 5, Limit: 50},
		MetaOnly: true,
	})
	require.NoError(t, err)

	assert.Empty(t, ms.searchCalls, "meta-only must not execute the search")
	assert.Equal(t, []model.SearchResultItem{}, resp.Results)
	assert.Equal(t, 0, resp.Pagination.Total)
	assert.Equal(t, 0, resp.Pagination.TotalPages)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 50, resp.Pagination.Limit)
	assert.False(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)

	assert.Equal(t, []string{"rural"}, resp.Metadata.Categories)
}

func TestSearch_MetadataCoversAllDimensions(t *testing.T) {
	ms := &mockStore{}

	srv := NewSearchService(ms)
	_, err := srv.Search(context.Background(), SearchRequest{
		Filters: query.Filters{Categories: []string{"sust."}},
		Page:    query.Page{Number: 1, Limit: 20},
	})
	require.NoError(t, err)

	// The aggregation ignores the current filter selection and always asks
	// for every dimension.
	assert.ElementsMatch(t, facet.Columns(), ms.distinctCalls)
}

func TestSearch_MetadataSortedWithSpanishCollation(t *testing.T) {
	ms := &mockStore{
		DistinctValuesFunc: func(ctx context.Context, column string) ([]string, error) {
			if column == facet.ColumnOrigin {
				return []string{"quechua", "ñuble", "mapudungun", "natural"}, nil
			}
			return nil, nil
		},
	}

	srv := NewSearchService(ms)
	resp, err := srv.Search(context.Background(), SearchRequest{
		Page: query.Page{Number: 1, Limit: 20},
	})
	require.NoError(t, err)

	// "ñ" sorts after "n" and before "o"; codepoint order would push it
	// past "z".
	assert.Equal(t, []string{"mapudungun", "natural", "ñuble", "quechua"}, resp.Metadata.Origins)
}

func TestSearch_MetadataError(t *testing.T) {
	ms := &mockStore{
		DistinctValuesFunc: func(ctx context.Context, column string) ([]string, error) {
			if column == facet.ColumnCategory {
				return nil, errors.New("connection refused")
			}
			return nil, nil
		},
	}

	srv := NewSearchService(ms)
	_, err := srv.Search(context.Background(), SearchRequest{
		Page: query.Page{Number: 1, Limit: 20},
	})
	require.Error(t, err)
}

func TestSearch_StoreError(t *testing.T) {
	ms := &mockStore{
		SearchFunc: func(ctx context.Context, r store.SearchRequest) (store.SearchResponse, error) {
			return store.SearchResponse{}, errors.New("connection refused")
		},
	}

	srv := NewSearchService(ms)
	_, err := srv.Search(context.Background(), SearchRequest{
		Page: query.Page{Number: 1, Limit: 20},
	})
	require.Error(t, err)
}

func TestSearch_ExplicitEmptyStatus(t *testing.T) {
	ms := &mockStore{}

	srv := NewSearchService(ms)
	resp, err := srv.Search(context.Background(), SearchRequest{
		Filters: query.Filters{Status: query.StatusOf("")},
		Page:    query.Page{Number: 1, Limit: 20},
	})
	require.NoError(t, err)

	require.Len(t, ms.searchCalls, 1)
	assert.Empty(t, ms.searchCalls[0].StatusScope)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Pagination.Total)
}

func TestGetWord(t *testing.T) {
	ms := &mockStore{
		GetByLemmaFunc: func(ctx context.Context, r store.GetByLemmaRequest) (store.GetByLemmaResponse, error) {
			return store.GetByLemmaResponse{Word: model.Word{ID: 7, Lemma: "fome", Status: model.StatusPublished}}, nil
		},
	}

	srv := NewSearchService(ms)
	word, err := srv.GetWord(context.Background(), GetWordRequest{Lemma: "fome"})
	require.NoError(t, err)
	assert.Equal(t, "fome", word.Lemma)

	require.Len(t, ms.lemmaCalls, 1)
	assert.Equal(t, []model.Status{model.StatusPublished}, ms.lemmaCalls[0].StatusScope)
}

func TestGetWord_PreviewScope(t *testing.T) {
	ms := &mockStore{
		GetByLemmaFunc: func(ctx context.Context, r store.GetByLemmaRequest) (store.GetByLemmaResponse, error) {
			return store.GetByLemmaResponse{Word: model.Word{Lemma: "pololo", Status: model.StatusDraft}}, nil
		},
	}

	srv := NewSearchService(ms)
	_, err := srv.GetWord(context.Background(), GetWordRequest{
		Lemma:      "pololo",
		Preview:    true,
		Visibility: visibility.Context{Role: "editor"},
	})
	require.NoError(t, err)

	require.Len(t, ms.lemmaCalls, 1)
	assert.Equal(t, model.Statuses(), ms.lemmaCalls[0].StatusScope)
}

func TestGetWord_NotFound(t *testing.T) {
	ms := &mockStore{}

	srv := NewSearchService(ms)
	_, err := srv.GetWord(context.Background(), GetWordRequest{Lemma: "inexistente"})
	require.Error(t, err)

	se, ok := err.(*serr.ServiceError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, serr.CodeNotFound, se.Code)
	assert.Equal(t, "inexistente", se.Env["lemma"])
}
