package services

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/types"
)

// ListingInput is the create payload. Price is a pointer so a missing price
// is distinguishable from a free item.
type ListingInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *float64         `json:"price"`
	Category    models.Category  `json:"category"`
	Condition   models.Condition `json:"condition"`
	Image       string           `json:"image"`
	Location    string           `json:"location"`
	SellerName  string           `json:"sellerName"`
	SellerEmail string           `json:"sellerEmail"`
}

// ListingService implements the listing lifecycle on top of a store.
type ListingService struct {
	store store.Store
	now   func() time.Time
}

// NewListingService creates a listing service over s
func NewListingService(s store.Store) *ListingService {
	return &ListingService{store: s, now: time.Now}
}

// List returns the listings selected by p
func (s *ListingService) List(ctx context.Context, p query.Params) ([]models.Listing, error) {
	return s.store.Find(ctx, query.Build(p))
}

// Get returns the listing with id, or nil when there is none
func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	return s.store.FindByID(ctx, id)
}

// ListBySeller returns every listing owned by email
func (s *ListingService) ListBySeller(ctx context.Context, email string) ([]models.Listing, error) {
	return s.store.FindBySeller(ctx, email)
}

// Create validates in and stores it as a new listing with zero views. When
// principal is set it becomes the seller email.
func (s *ListingService) Create(ctx context.Context, principal string, in *ListingInput) (string, error) {
	if in.Price == nil {
		return "", fmt.Errorf("%w: price is required", types.ErrValidation)
	}

	listing := models.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		Condition:   in.Condition,
		Image:       in.Image,
		Location:    in.Location,
		SellerName:  in.SellerName,
		SellerEmail: in.SellerEmail,
		Views:       0,
		CreatedAt:   stamp(s.now()),
	}
	if principal != "" {
		listing.SellerEmail = principal
	}

	if err := listing.Validate(); err != nil {
		return "", err
	}
	return s.store.Insert(ctx, &listing)
}

// authorizeOwner loads the listing and checks that principal owns it. A
// missing listing returns nil without error.
func (s *ListingService) authorizeOwner(ctx context.Context, principal, id string) (*models.Listing, error) {
	if principal == "" {
		return nil, types.ErrUnauthorized
	}

	listing, err := s.store.FindByID(ctx, id)
	if err != nil || listing == nil {
		return nil, err
	}
	if listing.SellerEmail != principal {
		return nil, fmt.Errorf("%w: listing %s belongs to another seller", types.ErrForbidden, id)
	}
	return listing, nil
}

// Update overwrites the editable fields of an owned listing. A missing listing affects 0 rows.
func (s *ListingService) Update(ctx context.Context, principal, id string, update *models.ListingUpdate) (int64, error) {
	if err := update.Validate(); err != nil {
		return 0, err
	}

	listing, err := s.authorizeOwner(ctx, principal, id)
	if err != nil || listing == nil {
		return 0, err
	}
	return s.store.Update(ctx, id, update)
}

// Delete removes an owned listing. A missing listing affects 0 rows.
func (s *ListingService) Delete(ctx context.Context, principal, id string) (int64, error) {
	listing, err := s.authorizeOwner(ctx, principal, id)
	if err != nil || listing == nil {
		return 0, err
	}
	return s.store.Delete(ctx, id)
}

// RecordView counts one view of the listing unless viewer is its seller.
// Anonymous views always count.
func (s *ListingService) RecordView(ctx context.Context, viewer, id string) (int64, error) {
	listing, err := s.store.FindByID(ctx, id)
	if err != nil || listing == nil {
		return 0, err
	}
	if viewer != "" && viewer == listing.SellerEmail {
		return 0, nil
	}
	return s.store.IncrementViews(ctx, id)
}

// stamp rounds t up to millisecond precision in UTC, which round-trips through
// every store and never precedes t.
func stamp(t time.Time) time.Time {
	t = t.UTC()
	r := t.Truncate(time.Millisecond)
	if r.Before(t) {
		r = r.Add(time.Millisecond)
	}
	return r
}
