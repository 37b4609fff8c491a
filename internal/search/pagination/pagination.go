// Package pagination is pure arithmetic over (page, limit, total).
package pagination

// Result describes the navigation state for one result page.
type Result struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Paginate computes the navigation descriptor. limit must be >= 1.
func Paginate(page, limit, total int) Result {
	totalPages := (total + limit - 1) / limit

	return Result{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page*limit < total,
		HasPrev:    page > 1,
	}
}

// MetaOnly is the zeroed block returned when result execution was skipped.
// Callers must not infer a real page count from it.
func MetaOnly(limit int) Result {
	return Result{
		Page:  1,
		Limit: limit,
	}
}
