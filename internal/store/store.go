// Package store holds listings and users behind a small set of interfaces,
// implemented by MongoDB, SQL (GORM), the bundled static dataset and the
// failover and cache decorators that compose them.
package store

import (
	"context"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
)

// ListingReader is the read contract every store implements, including the
// static fallback.
type ListingReader interface {
	// Find returns the listings selected and ordered by q.
	Find(ctx context.Context, q query.Query) ([]models.Listing, error)
	// FindByID returns nil without error when no listing has the id, and
	// types.ErrNotFound when the id is malformed for the store.
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	FindBySeller(ctx context.Context, email string) ([]models.Listing, error)
}

// ListingWriter is implemented by persistent stores. Mutations report the
// number of affected listings; a missing id is 0, not an error.
type ListingWriter interface {
	Insert(ctx context.Context, listing *models.Listing) (string, error)
	Update(ctx context.Context, id string, update *models.ListingUpdate) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	// IncrementViews adds exactly one to the view count as a single store operation.
	IncrementViews(ctx context.Context, id string) (int64, error)
}

// UserStore holds user records keyed by email.
type UserStore interface {
	// InsertUser stores u unless a user with the same email exists, in which
	// case created is false and nothing changes.
	InsertUser(ctx context.Context, u *models.User) (id string, created bool, err error)
	FindUser(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, email string, update *models.UserUpdate) (int64, error)
	DeleteUser(ctx context.Context, email string) (int64, error)
}

// Store is a complete backend.
type Store interface {
	ListingReader
	ListingWriter
	UserStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Name() string
}
