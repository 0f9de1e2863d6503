package marketclient

import (
	"time"

	"github.com/localnerve/campus-market/internal/pipeline"
)

// Catalog is a fetched listing set browsed without further requests
type Catalog struct {
	items     []Item
	FetchedAt time.Time
}

// NewCatalog wraps items already in memory
func NewCatalog(items []Item) *Catalog {
	return &Catalog{items: items, FetchedAt: time.Now()}
}

// Len returns the number of fetched listings
func (c *Catalog) Len() int {
	return len(c.items)
}

// Browse returns the listings selected by opts. The fetched set is not modified.
func (c *Catalog) Browse(opts Options) []Item {
	return pipeline.Run(c.items, opts)
}
