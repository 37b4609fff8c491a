// Package query turns untrusted query-string input into a bounded, typed
// filter specification or a client-facing rejection.
package query

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/MartinEBravo/duech-go/internal/pkg/serr"
	"github.com/MartinEBravo/duech-go/internal/search/facet"
)

const (
	MaxQueryLen  = 100
	MaxListLen   = 10
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 1000
)

// Status is the explicit-vs-absent status filter. An absent filter leaves the
// status scope to the visibility policy; a present one, even with an empty
// value, must be respected as-is.
type Status struct {
	value string
	set   bool
}

func StatusOf(v string) Status {
	return Status{value: v, set: true}
}

func (s Status) Set() bool {
	return s.set
}

func (s Status) Value() string {
	return s.value
}

// Filters is the validated multi-dimensional filter set. List values keep
// their order, and duplicates are deliberately preserved: they count toward
// the cardinality cap and flow through to the store unchanged.
type Filters struct {
	Query      string
	Categories []string
	Origins    []string
	Letters    []string
	AssignedTo []string
	Status     Status
	Markers    map[facet.Marker][]string
}

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Request is the parsed search request.
type Request struct {
	Filters    Filters
	Page       Page
	MetaOnly   bool
	EditorMode bool
}

// Parse validates raw query parameters into a Request. Every failure is a
// *serr.ServiceError with a stable reason code; parsing is a deterministic
// function of the input and is never worth retrying.
func Parse(values url.Values) (Request, error) {
	q := strings.TrimSpace(values.Get("q"))
	if utf8.RuneCountInString(q) > MaxQueryLen {
		se := serr.NewServiceError(nil, http.StatusBadRequest, serr.CodeQueryTooLong,
			"search query exceeds %d characters", MaxQueryLen)
		se.Env["field"] = "q"
		return Request{}, se
	}

	req := Request{
		Filters: Filters{
			Query:   q,
			Markers: make(map[facet.Marker][]string, len(facet.All())),
		},
	}

	lists := []struct {
		param string
		dst   *[]string
	}{
		{"categories", &req.Filters.Categories},
		{"origins", &req.Filters.Origins},
		{"letters", &req.Filters.Letters},
		{"assignedTo", &req.Filters.AssignedTo},
	}
	for _, l := range lists {
		vals, err := parseList(values.Get(l.param), l.param)
		if err != nil {
			return Request{}, err
		}
		*l.dst = vals
	}

	for _, m := range facet.All() {
		vals, err := parseList(values.Get(m.Param()), m.Param())
		if err != nil {
			return Request{}, err
		}
		if len(vals) > 0 {
			req.Filters.Markers[m] = vals
		}
	}

	if values.Has("status") {
		req.Filters.Status = StatusOf(strings.TrimSpace(values.Get("status")))
	}

	req.Page = parsePage(values)
	if req.Page.Number < 1 || req.Page.Limit < 1 || req.Page.Limit > MaxLimit {
		// Unreachable after clamping, but the page math downstream divides
		// by limit, so keep the guard.
		se := serr.NewServiceError(nil, http.StatusBadRequest, serr.CodeInvalidPagination,
			"invalid pagination parameters")
		return Request{}, se
	}

	req.MetaOnly = isTrue(values.Get("metaOnly"))
	req.EditorMode = isTrue(values.Get("editorMode"))

	return req, nil
}

// parseList splits a comma-separated parameter, trims entries and drops empty
// ones. Duplicates are kept. The first dimension over the cap fails the whole
// request.
func parseList(raw, param string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	vals := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		vals = append(vals, p)
	}

	if len(vals) > MaxListLen {
		se := serr.NewServiceError(nil, http.StatusBadRequest, serr.CodeTooManyFilterOptions,
			"filter %q accepts at most %d values", param, MaxListLen)
		se.Env["field"] = param
		return nil, se
	}

	if len(vals) == 0 {
		return nil, nil
	}
	return vals, nil
}

func parsePage(values url.Values) Page {
	page := DefaultPage
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}
	if page < 1 {
		page = 1
	}

	limit := DefaultLimit
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Page{Number: page, Limit: limit}
}

func isTrue(v string) bool {
	return v == "true" || v == "1"
}
