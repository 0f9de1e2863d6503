package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/localnerve/campus-market/data"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/types"
)

var errReadOnly = fmt.Errorf("%w: bundled dataset is read-only", types.ErrStoreUnavailable)

// StaticStore serves a fixed listing set from memory. It answers reads only.
type StaticStore struct {
	listings []models.Listing
}

// NewStaticStore decodes a JSON array of listings.
func NewStaticStore(raw []byte) (*StaticStore, error) {
	var listings []models.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode static listings: %w", err)
	}
	return &StaticStore{listings: listings}, nil
}

// LoadStaticStore returns a store over the bundled dataset.
func LoadStaticStore() (*StaticStore, error) {
	return NewStaticStore(data.Products)
}

// Listings returns a copy of every listing in dataset order.
func (s *StaticStore) Listings() []models.Listing {
	out := make([]models.Listing, len(s.listings))
	copy(out, s.listings)
	return out
}

func (s *StaticStore) Find(_ context.Context, q query.Query) ([]models.Listing, error) {
	return q.Apply(s.listings), nil
}

func (s *StaticStore) FindByID(_ context.Context, id string) (*models.Listing, error) {
	for i := range s.listings {
		if s.listings[i].ID == id {
			listing := s.listings[i]
			return &listing, nil
		}
	}
	return nil, nil
}

func (s *StaticStore) FindBySeller(_ context.Context, email string) ([]models.Listing, error) {
	out := []models.Listing{}
	for _, l := range s.listings {
		if l.SellerEmail == email {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *StaticStore) Insert(context.Context, *models.Listing) (string, error) {
	return "", errReadOnly
}

func (s *StaticStore) Update(context.Context, string, *models.ListingUpdate) (int64, error) {
	return 0, errReadOnly
}

func (s *StaticStore) Delete(context.Context, string) (int64, error) {
	return 0, errReadOnly
}

func (s *StaticStore) IncrementViews(context.Context, string) (int64, error) {
	return 0, errReadOnly
}

func (s *StaticStore) InsertUser(context.Context, *models.User) (string, bool, error) {
	return "", false, errReadOnly
}

func (s *StaticStore) FindUser(context.Context, string) (*models.User, error) {
	return nil, errReadOnly
}

func (s *StaticStore) UpsertUser(context.Context, string, *models.UserUpdate) (int64, error) {
	return 0, errReadOnly
}

func (s *StaticStore) DeleteUser(context.Context, string) (int64, error) {
	return 0, errReadOnly
}

func (s *StaticStore) Ping(context.Context) error  { return nil }
func (s *StaticStore) Close(context.Context) error { return nil }
func (s *StaticStore) Name() string                { return "static" }
