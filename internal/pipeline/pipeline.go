// Package pipeline filters and orders an already fetched listing set in
// memory, so a browsing client can re-run it on every change of search
// text, category or sort without another request.
package pipeline

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/types"
)

// Item is a listing as received by a client. Price and creation time decode
// leniently: missing or malformed values are kept as invalid and sort as the
// smallest value.
type Item struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       types.FlexFloat `json:"price"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Image       string          `json:"image"`
	Location    string          `json:"location,omitempty"`
	SellerName  string          `json:"sellerName"`
	SellerEmail string          `json:"sellerEmail"`
	Views       types.FlexFloat `json:"views"`
	CreatedAt   types.FlexTime  `json:"createdAt"`
}

// Options select the displayed subset.
type Options struct {
	Search   string
	Category string
	Sort     string
}

// Decode parses a JSON array of listings.
func Decode(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return items, nil
}

// Matches reports whether the item passes both the text and category predicates.
func (o Options) Matches(item *Item) bool {
	return o.matchesText(item) && o.matchesCategory(item)
}

// The text predicate covers title and description.
func (o Options) matchesText(item *Item) bool {
	if o.Search == "" {
		return true
	}
	return query.ContainsFold(item.Title, o.Search) || query.ContainsFold(item.Description, o.Search)
}

func (o Options) matchesCategory(item *Item) bool {
	return o.Category == "" || o.Category == query.AllCategories || o.Category == item.Category
}

// Run returns a new slice holding the items that match opts, stably sorted by
// opts.Sort. items is not modified.
func Run(items []Item, opts Options) []Item {
	result := make([]Item, 0, len(items))
	for i := range items {
		if opts.Matches(&items[i]) {
			result = append(result, items[i])
		}
	}

	slices.SortStableFunc(result, query.Compare(query.ParseSort(opts.Sort), itemPrice, itemCreated))
	return result
}

func itemPrice(item Item) float64 {
	return item.Price.OrNegInf()
}

func itemCreated(item Item) float64 {
	return item.CreatedAt.UnixOrNegInf()
}
