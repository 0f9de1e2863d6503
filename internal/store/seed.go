package store

import (
	"context"
	"fmt"

	"github.com/localnerve/campus-market/internal/models"
)

// Seed inserts listings into w and returns the new ids in order. Each insert
// gets a fresh store id, so seeding twice duplicates the listings.
func Seed(ctx context.Context, w ListingWriter, listings []models.Listing) ([]string, error) {
	ids := make([]string, 0, len(listings))
	for i := range listings {
		id, err := w.Insert(ctx, &listings[i])
		if err != nil {
			return ids, fmt.Errorf("seed listing %q: %w", listings[i].Title, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
