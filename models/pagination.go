package models

import "math"

// SortOrder orders product listings by price. The zero value keeps the store's natural order.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

type ProductFilters struct {
	Category *string
	Status   *bool
}

// IsEmpty reports whether the filters match every product.
func (f ProductFilters) IsEmpty() bool {
	return f.Category == nil && f.Status == nil
}

// ProductPage is one page of a filtered, sorted product listing.
type ProductPage struct {
	Items       []Product
	TotalCount  int64
	TotalPages  int
	Page        int
	Limit       int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    *int
	NextPage    *int
}

// NewProductPage computes the navigation fields of a listing page.
// totalPages is ceil(totalCount/limit); a limit below 1 is treated as 1.
func NewProductPage(items []Product, totalCount int64, page, limit int) ProductPage {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := totalCount / int64(limit)
	if totalCount%int64(limit) != 0 {
		totalPages++
	}

	p := ProductPage{
		Items:       items,
		TotalCount:  totalCount,
		TotalPages:  int(totalPages),
		Page:        page,
		Limit:       limit,
		HasPrevPage: page > 1,
		HasNextPage: int64(page) < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// PageOffset returns the number of rows before page. ok is false when the
// offset does not fit in an int, in which case the page is necessarily empty.
func PageOffset(page, limit int) (offset int, ok bool) {
	if page < 1 || limit < 1 {
		return 0, true
	}
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}
