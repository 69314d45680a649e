// Package listing turns listing query strings into catalog queries and builds
// the navigation links for the resulting pages. It is shared by the JSON API and
// the rendered views so both paginate identically.
package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mytheresa/storefront/models"
)

const (
	DefaultLimit = 10
	DefaultPage  = 1
)

// Query is the canonical form of a listing request.
type Query struct {
	Filters models.ProductFilters
	Sort    models.SortOrder
	Page    int
	Limit   int

	params url.Values
}

// Resolve maps the query parameters limit, page, sort, query, category and status
// to a Query. Malformed numbers fall back to their defaults instead of failing.
func Resolve(values url.Values) Query {
	q := Query{
		Filters: resolveFilters(values),
		Sort:    resolveSort(values.Get("sort")),
		Page:    positiveInt(values.Get("page"), DefaultPage),
		Limit:   positiveInt(values.Get("limit"), DefaultLimit),
		params:  cloneValues(values),
	}
	return q
}

// category wins over status, and status over the overloaded query parameter.
func resolveFilters(values url.Values) models.ProductFilters {
	var f models.ProductFilters

	if category := values.Get("category"); category != "" {
		c := strings.TrimSpace(category)
		f.Category = &c
		return f
	}

	if status := values.Get("status"); status != "" {
		b := parseBool(status)
		f.Status = &b
		return f
	}

	if query := values.Get("query"); query != "" {
		switch strings.ToLower(strings.TrimSpace(query)) {
		case "true", "disponible":
			b := true
			f.Status = &b
		case "false", "no disponible":
			b := false
			f.Status = &b
		default:
			f.Category = &query
		}
	}
	return f
}

func resolveSort(raw string) models.SortOrder {
	switch raw {
	case "asc":
		return models.SortPriceAsc
	case "desc":
		return models.SortPriceDesc
	}
	return models.SortNone
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Links returns the previous and next page URLs for path, or nil where no such page exists.
// Every originally supplied parameter is kept; limit is left out when it is the default.
func (q Query) Links(path string, page models.ProductPage) (prev, next *string) {
	if page.PrevPage != nil {
		l := q.link(path, *page.PrevPage)
		prev = &l
	}
	if page.NextPage != nil {
		l := q.link(path, *page.NextPage)
		next = &l
	}
	return prev, next
}

func (q Query) link(path string, page int) string {
	v := cloneValues(q.params)
	v.Set("page", strconv.Itoa(page))
	if q.Limit == DefaultLimit {
		v.Del("limit")
	} else {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return path + "?" + v.Encode()
}
