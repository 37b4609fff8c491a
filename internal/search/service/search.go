package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
	"github.com/MartinEBravo/duech-go/internal/search/facet"
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/MartinEBravo/duech-go/internal/search/pagination"
	"github.com/MartinEBravo/duech-go/internal/search/query"
	"github.com/MartinEBravo/duech-go/internal/search/store"
	"github.com/MartinEBravo/duech-go/internal/search/visibility"
	"golang.org/x/sync/errgroup"
)

// SearchService composes the validated filter set, the visibility policy and
// the facet metadata aggregation into one response envelope.
type SearchService struct {
	store store.ContentStore
}

func NewSearchService(st store.ContentStore) *SearchService {
	return &SearchService{store: st}
}

type SearchRequest struct {
	Filters    query.Filters
	Page       query.Page
	MetaOnly   bool
	Visibility visibility.Context
}

type SearchResponse struct {
	Results    []model.SearchResultItem
	Metadata   model.FacetMetadata
	Pagination pagination.Result
}

// Search runs the result query and the metadata aggregation concurrently.
// Both are read-only; a failure of either fails the request, never a partial
// response.
func (s *SearchService) Search(ctx context.Context, r SearchRequest) (SearchResponse, error) {
	scope := visibility.StatusScope(r.Visibility, r.Filters.Status)

	g, gctx := errgroup.WithContext(ctx)

	var meta model.FacetMetadata
	g.Go(func() error {
		m, err := s.facetMetadata(gctx)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})

	var items []model.SearchResultItem
	var total int
	if !r.MetaOnly {
		g.Go(func() error {
			resp, err := s.store.Search(gctx, store.SearchRequest{
				Filters:     r.Filters,
				StatusScope: scope,
				Offset:      r.Page.Offset(),
				Limit:       r.Page.Limit,
			})
			if err != nil {
				return fmt.Errorf("execute search: %w", err)
			}

			items = resp.Items
			total = resp.Total
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SearchResponse{}, err
	}

	if items == nil {
		items = []model.SearchResultItem{}
	}

	pg := pagination.Paginate(r.Page.Number, r.Page.Limit, total)
	if r.MetaOnly {
		pg = pagination.MetaOnly(r.Page.Limit)
	}

	return SearchResponse{
		Results:    items,
		Metadata:   meta,
		Pagination: pg,
	}, nil
}

// facetMetadata fans out one distinct-values query per dimension over the
// full store, then sorts every list with Spanish collation once all fetches
// complete. The lists are independent of the current filter selection.
func (s *SearchService) facetMetadata(ctx context.Context) (model.FacetMetadata, error) {
	markers := facet.All()
	markerVals := make([][]string, len(markers))

	var categories, origins []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vals, err := s.store.DistinctValues(gctx, facet.ColumnCategory)
		if err != nil {
			return fmt.Errorf("aggregate categories: %w", err)
		}
		categories = vals
		return nil
	})
	g.Go(func() error {
		vals, err := s.store.DistinctValues(gctx, facet.ColumnOrigin)
		if err != nil {
			return fmt.Errorf("aggregate origins: %w", err)
		}
		origins = vals
		return nil
	})
	for i, m := range markers {
		g.Go(func() error {
			vals, err := s.store.DistinctValues(gctx, m.Column())
			if err != nil {
				return fmt.Errorf("aggregate %s markers: %w", m, err)
			}
			markerVals[i] = vals
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return model.FacetMetadata{}, err
	}

	c := newCollator()
	sortValues(c, categories)
	sortValues(c, origins)

	meta := model.FacetMetadata{
		Categories: categories,
		Origins:    origins,
		Markers:    make(map[facet.Marker][]string, len(markers)),
	}
	for i, m := range markers {
		sortValues(c, markerVals[i])
		meta.Markers[m] = markerVals[i]
	}

	return meta, nil
}

type GetWordRequest struct {
	Lemma      string
	Preview    bool
	Visibility visibility.Context
}

// GetWord looks up a single entry by lemma. The preview carve-out lets any
// authenticated role see unpublished statuses of this one entry; list search
// visibility is unaffected.
func (s *SearchService) GetWord(ctx context.Context, r GetWordRequest) (model.Word, error) {
	scope := visibility.PreviewScope(r.Visibility, r.Preview)

	resp, err := s.store.GetByLemma(ctx, store.GetByLemmaRequest{
		Lemma:       r.Lemma,
		StatusScope: scope,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			se := serr.NewServiceError(err, http.StatusNotFound, serr.CodeNotFound, "word not found")
			se.Env["lemma"] = r.Lemma
			return model.Word{}, se
		}

		return model.Word{}, fmt.Errorf("get word by lemma: %w", err)
	}

	return resp.Word, nil
}
