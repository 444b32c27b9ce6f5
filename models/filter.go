package models

// PageSize is the fixed number of listings per page.
const PageSize = 10

type PropertyFilter struct {
	Keyword      string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Gender       string
	WiFi         bool
	AC           bool
	Food         bool
	Parking      bool
}

// RoommateFilter never exposes inactive listings; the store always adds
// isActive=true.
type RoommateFilter struct {
	Location   string
	Gender     string
	MinBudget  *float64
	MaxBudget  *float64
	Occupation string
	Smoking    bool
	Veg        bool
}

// Page is one page of a listing query.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
}

// Pages is ceil(total/PageSize).
func (p Page[T]) Pages() int {
	pages := int(p.Total / PageSize)
	if p.Total%PageSize > 0 {
		pages++
	}
	return pages
}

// Skip is the number of documents before the requested page.
func Skip(page int) int64 {
	if page < 1 {
		page = 1
	}
	return int64(page-1) * PageSize
}
