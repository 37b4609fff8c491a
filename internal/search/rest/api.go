package rest

import (
	"context"
	"net/http"

	"github.com/MartinEBravo/duech-go/internal/pkg/fn"
	"github.com/MartinEBravo/duech-go/internal/pkg/httpx"
	"github.com/MartinEBravo/duech-go/internal/pkg/middleware"
	"github.com/MartinEBravo/duech-go/internal/search/facet"
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/MartinEBravo/duech-go/internal/search/pagination"
	"github.com/MartinEBravo/duech-go/internal/search/query"
	"github.com/MartinEBravo/duech-go/internal/search/service"
	"github.com/MartinEBravo/duech-go/internal/search/visibility"
)

type searchService interface {
	Search(ctx context.Context, r service.SearchRequest) (service.SearchResponse, error)
	GetWord(ctx context.Context, r service.GetWordRequest) (model.Word, error)
}

type wordOfDayService interface {
	Today(ctx context.Context) (model.WordOfDay, error)
}

type API struct {
	search searchService
	wod    wordOfDayService
	mux    http.ServeMux
}

func NewAPI(search searchService, wod wordOfDayService) *API {
	api := &API{
		search: search,
		wod:    wod,
		mux:    *http.NewServeMux(),
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.mux.HandleFunc("GET /search", api.handleSearch)
	api.mux.HandleFunc("GET /words/{lemma}", api.handleGetWord)
	api.mux.HandleFunc("GET /word-of-the-day", api.handleWordOfDay)
}

type senseResponse struct {
	Num        int               `json:"num"`
	Definition string            `json:"definition"`
	Category   string            `json:"category,omitempty"`
	Origin     string            `json:"origin,omitempty"`
	Markers    map[string]string `json:"markers,omitempty"`
}

type wordBody struct {
	Lemma  string          `json:"lemma"`
	Senses []senseResponse `json:"senses"`
}

type searchItemResponse struct {
	Word       wordBody `json:"word"`
	Letter     string   `json:"letter"`
	MatchType  string   `json:"matchType"`
	Status     string   `json:"status"`
	AssignedTo string   `json:"assignedTo,omitempty"`
	CreatedBy  string   `json:"createdBy,omitempty"`
}

type metadataResponse struct {
	Categories []string            `json:"categories"`
	Origins    []string            `json:"origins"`
	Markers    map[string][]string `json:"markers"`
}

type searchData struct {
	Results    []searchItemResponse `json:"results"`
	Metadata   metadataResponse     `json:"metadata"`
	Pagination pagination.Result    `json:"pagination"`
}

func (api *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := query.Parse(r.URL.Query())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	resp, err := api.search.Search(r.Context(), service.SearchRequest{
		Filters:    req.Filters,
		Page:       req.Page,
		MetaOnly:   req.MetaOnly,
		Visibility: visibilityContext(r, req.EditorMode),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteData(w, http.StatusOK, searchData{
		Results: fn.Map(resp.Results, func(item model.SearchResultItem) searchItemResponse {
			return searchItemResponse{
				Word: wordBody{
					Lemma:  item.Word.Lemma,
					Senses: sensesResponse(item.Word.Senses),
				},
				Letter:     item.Word.Letter,
				MatchType:  string(item.MatchType),
				Status:     string(item.Word.Status),
				AssignedTo: item.Word.AssignedTo,
				CreatedBy:  item.Word.CreatedBy,
			}
		}),
		Metadata:   metadata(resp.Metadata),
		Pagination: resp.Pagination,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type wordDetailResponse struct {
	Lemma      string          `json:"lemma"`
	Letter     string          `json:"letter"`
	Status     string          `json:"status"`
	AssignedTo string          `json:"assignedTo,omitempty"`
	CreatedBy  string          `json:"createdBy,omitempty"`
	Senses     []senseResponse `json:"senses"`
}

func (api *API) handleGetWord(w http.ResponseWriter, r *http.Request) {
	word, err := api.search.GetWord(r.Context(), service.GetWordRequest{
		Lemma:      r.PathValue("lemma"),
		Preview:    isTrue(r.URL.Query().Get("preview")),
		Visibility: visibilityContext(r, isTrue(r.URL.Query().Get("editorMode"))),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteData(w, http.StatusOK, wordDetail(word))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type wordOfDayData struct {
	Word   wordDetailResponse `json:"word"`
	Letter string             `json:"letter"`
}

func (api *API) handleWordOfDay(w http.ResponseWriter, r *http.Request) {
	pick, err := api.wod.Today(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteData(w, http.StatusOK, wordOfDayData{
		Word:   wordDetail(pick.Word),
		Letter: pick.Letter,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

// visibilityContext derives the per-request visibility input. Editor mode
// comes from the upstream gateway header, or from the explicit query override
// when the header is unavailable; either way it fails closed without an
// authenticated role, since editor mode exposes unpublished content.
func visibilityContext(r *http.Request, editorModeParam bool) visibility.Context {
	role := middleware.RoleFromContext(r.Context())

	editorMode := editorModeParam || isTrue(r.Header.Get("X-Editor-Mode"))
	if role == "" {
		editorMode = false
	}

	return visibility.Context{
		EditorMode: editorMode,
		Role:       role,
	}
}

func wordDetail(word model.Word) wordDetailResponse {
	return wordDetailResponse{
		Lemma:      word.Lemma,
		Letter:     word.Letter,
		Status:     string(word.Status),
		AssignedTo: word.AssignedTo,
		CreatedBy:  word.CreatedBy,
		Senses:     sensesResponse(word.Senses),
	}
}

func sensesResponse(senses []model.Sense) []senseResponse {
	return fn.Map(senses, func(s model.Sense) senseResponse {
		var markers map[string]string
		if len(s.Markers) > 0 {
			markers = make(map[string]string, len(s.Markers))
			for m, v := range s.Markers {
				markers[m.Param()] = v
			}
		}

		return senseResponse{
			Num:        s.Num,
			Definition: s.Definition,
			Category:   s.Category,
			Origin:     s.Origin,
			Markers:    markers,
		}
	})
}

func metadata(meta model.FacetMetadata) metadataResponse {
	markers := make(map[string][]string, len(meta.Markers))
	for _, m := range facet.All() {
		markers[m.Param()] = emptyIfNil(meta.Markers[m])
	}

	return metadataResponse{
		Categories: emptyIfNil(meta.Categories),
		Origins:    emptyIfNil(meta.Origins),
		Markers:    markers,
	}
}

func emptyIfNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}

func isTrue(v string) bool {
	return v == "true" || v == "1"
}
