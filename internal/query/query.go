// Package query turns listing filter parameters into a backend-neutral Query
// and renders it for MongoDB, GORM and in-memory slices with the same semantics.
package query

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/localnerve/campus-market/internal/models"
)

// AllCategories is the category value that disables the category filter.
const AllCategories = "All"

// Sort is a listing order.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
)

// ParseSort maps a request value to a Sort. Unknown values order by newest.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	default:
		return SortNewest
	}
}

// Params are the raw filter parameters of a listing request.
type Params struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Sort     string `query:"sort"`
	Limit    int    `query:"limit"`
}

// Query is a normalized listing query.
type Query struct {
	// Category restricts results to an exact category. Empty means no restriction.
	Category string
	// Search restricts results to titles containing it, ignoring case. Empty means no restriction.
	Search string
	Sort   Sort
	// Limit truncates the ordered result when positive.
	Limit int
}

// Build normalizes params into a Query.
func Build(p Params) Query {
	q := Query{
		Search: p.Search,
		Sort:   ParseSort(p.Sort),
	}
	if p.Category != "" && p.Category != AllCategories {
		q.Category = p.Category
	}
	if p.Limit > 0 {
		q.Limit = p.Limit
	}
	return q
}

// Key returns a stable string that identifies the result set of q. String
// fields are quoted so separators inside a value cannot shift field boundaries.
func (q Query) Key() string {
	return fmt.Sprintf("category=%q|search=%q|sort=%q|limit=%d",
		q.Category, strings.ToLower(q.Search), q.Sort, q.Limit)
}

// Matches reports whether the listing satisfies the filters of q.
func (q Query) Matches(l *models.Listing) bool {
	if q.Category != "" && string(l.Category) != q.Category {
		return false
	}
	if q.Search != "" && !ContainsFold(l.Title, q.Search) {
		return false
	}
	return true
}

// Apply filters, orders and truncates listings in memory. The input is not modified.
func (q Query) Apply(listings []models.Listing) []models.Listing {
	result := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if q.Matches(&listings[i]) {
			result = append(result, listings[i])
		}
	}

	slices.SortStableFunc(result, Compare(q.Sort, listingPrice, listingCreated))

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result
}

// Compare returns a comparison function for slices.SortStableFunc that orders
// records by s. The accessors return negative infinity for values that are
// missing, so such records sort as the smallest value.
func Compare[T any](s Sort, price func(T) float64, created func(T) float64) func(a, b T) int {
	switch s {
	case SortPriceLow:
		return func(a, b T) int { return cmp.Compare(price(a), price(b)) }
	case SortPriceHigh:
		return func(a, b T) int { return cmp.Compare(price(b), price(a)) }
	default:
		return func(a, b T) int { return cmp.Compare(created(b), created(a)) }
	}
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func listingPrice(l models.Listing) float64 {
	return l.Price
}

func listingCreated(l models.Listing) float64 {
	if l.CreatedAt.IsZero() {
		return math.Inf(-1)
	}
	return float64(l.CreatedAt.UnixNano())
}
