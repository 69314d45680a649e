package listing

import (
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/mytheresa/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestResolvePagination(t *testing.T) {
	testCases := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
	}{
		{name: "Defaults", query: "", expectedPage: 1, expectedLimit: 10},
		{name: "Explicit values", query: "page=3&limit=5", expectedPage: 3, expectedLimit: 5},
		{name: "Malformed values fall back", query: "page=abc&limit=xyz", expectedPage: 1, expectedLimit: 10},
		{name: "Zero and negative fall back", query: "page=0&limit=-4", expectedPage: 1, expectedLimit: 10},
		{name: "Decimal values fall back", query: "page=2.5&limit=1.5", expectedPage: 1, expectedLimit: 10},
		{name: "Surrounding spaces are tolerated", query: "page=%202%20&limit=%201", expectedPage: 2, expectedLimit: 1},
		{name: "Largest integers are kept", query: "page=" + strconv.Itoa(math.MaxInt) + "&limit=" + strconv.Itoa(math.MaxInt), expectedPage: math.MaxInt, expectedLimit: math.MaxInt},
		{name: "Out of range integers fall back", query: "page=99999999999999999999&limit=99999999999999999999", expectedPage: 1, expectedLimit: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := Resolve(mustParse(t, tc.query))
			assert.Equal(t, tc.expectedPage, q.Page)
			assert.Equal(t, tc.expectedLimit, q.Limit)
		})
	}
}

func TestResolveFilters(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	testCases := []struct {
		name             string
		query            string
		expectedCategory *string
		expectedStatus   *bool
	}{
		{name: "No filter", query: ""},
		{name: "Category is trimmed", query: "category=%20Laptops%20", expectedCategory: strPtr("Laptops")},
		{name: "Category wins over status and query", query: "category=Phones&status=true&query=false", expectedCategory: strPtr("Phones")},
		{name: "Status true", query: "status=true", expectedStatus: boolPtr(true)},
		{name: "Status 1", query: "status=1", expectedStatus: boolPtr(true)},
		{name: "Status yes", query: "status=yes", expectedStatus: boolPtr(true)},
		{name: "Status anything else is false", query: "status=maybe", expectedStatus: boolPtr(false)},
		{name: "Status wins over query", query: "status=0&query=Laptops", expectedStatus: boolPtr(false)},
		{name: "Query true", query: "query=true", expectedStatus: boolPtr(true)},
		{name: "Query disponible", query: "query=%20Disponible%20", expectedStatus: boolPtr(true)},
		{name: "Query false", query: "query=FALSE", expectedStatus: boolPtr(false)},
		{name: "Query no disponible", query: "query=no%20disponible", expectedStatus: boolPtr(false)},
		{name: "Query falls back to raw category", query: "query=%20Laptops", expectedCategory: strPtr(" Laptops")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := Resolve(mustParse(t, tc.query))
			assert.Equal(t, tc.expectedCategory, q.Filters.Category)
			assert.Equal(t, tc.expectedStatus, q.Filters.Status)
		})
	}
}

func TestResolveSort(t *testing.T) {
	assert.Equal(t, models.SortPriceAsc, Resolve(mustParse(t, "sort=asc")).Sort)
	assert.Equal(t, models.SortPriceDesc, Resolve(mustParse(t, "sort=desc")).Sort)
	assert.Equal(t, models.SortNone, Resolve(mustParse(t, "sort=price")).Sort)
	assert.Equal(t, models.SortNone, Resolve(mustParse(t, "")).Sort)
}

func TestResolveDoesNotAliasInput(t *testing.T) {
	values := mustParse(t, "category=Laptops")
	q := Resolve(values)
	values.Set("category", "Phones")

	prev, next := q.Links("/api/products", models.NewProductPage(nil, 30, 2, 10))
	require.NotNil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, "/api/products?category=Laptops&page=1", *prev)
}

func TestLinks(t *testing.T) {
	testCases := []struct {
		name         string
		query        string
		total        int64
		expectedPrev *string
		expectedNext *string
	}{
		{
			name:  "Huge limit fits everything on one page",
			query: "limit=" + strconv.Itoa(math.MaxInt),
			total: 7,
		},
		{
			name:  "Single page has no links",
			query: "",
			total: 3,
		},
		{
			name:         "Default limit is omitted",
			query:        "page=2&sort=asc",
			total:        30,
			expectedPrev: ptr("/products?page=1&sort=asc"),
			expectedNext: ptr("/products?page=3&sort=asc"),
		},
		{
			name:         "Custom limit is kept",
			query:        "category=Laptops&sort=desc&page=1&limit=5",
			total:        7,
			expectedNext: ptr("/products?category=Laptops&limit=5&page=2&sort=desc"),
		},
		{
			name:         "Explicit default limit is dropped",
			query:        "limit=10&query=disponible",
			total:        11,
			expectedNext: ptr("/products?page=2&query=disponible"),
		},
		{
			name:         "Malformed limit is replaced by resolved value",
			query:        "limit=abc&page=2",
			total:        15,
			expectedPrev: ptr("/products?page=1"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := Resolve(mustParse(t, tc.query))
			page := models.NewProductPage(nil, tc.total, q.Page, q.Limit)
			prev, next := q.Links("/products", page)
			assert.Equal(t, tc.expectedPrev, prev)
			assert.Equal(t, tc.expectedNext, next)
		})
	}
}

func ptr(s string) *string { return &s }
