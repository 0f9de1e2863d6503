package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/types"
	"go.uber.org/zap"
)

var errNoPrimary = fmt.Errorf("%w: no persistent store connected", types.ErrStoreUnavailable)

// Status reports which store answers listing reads.
type Status struct {
	Connected     bool `json:"connected"`
	UsingFallback bool `json:"usingFallback"`
}

// FailoverStore sends every operation to a persistent store and answers
// listing reads from a fallback when the persistent store fails or was never
// connected. Writes never fall back.
type FailoverStore struct {
	primary  Store
	fallback ListingReader
	logger   *zap.Logger

	// set by the most recent listing read
	degraded atomic.Bool
}

// NewFailoverStore composes primary and fallback. primary may be nil.
func NewFailoverStore(primary Store, fallback ListingReader, logger *zap.Logger) *FailoverStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FailoverStore{primary: primary, fallback: fallback, logger: logger}
}

// Status returns the connection state for the db-status endpoint.
func (s *FailoverStore) Status() Status {
	connected := s.primary != nil
	return Status{
		Connected:     connected,
		UsingFallback: !connected || s.degraded.Load(),
	}
}

func (s *FailoverStore) recovered(op string, err error) {
	s.degraded.Store(true)
	fallbackReads.WithLabelValues(op).Inc()
	if err != nil {
		s.logger.Warn("persistent store read failed, using bundled listings",
			zap.String("operation", op), zap.Error(err))
	}
}

func (s *FailoverStore) Find(ctx context.Context, q query.Query) ([]models.Listing, error) {
	if s.primary != nil {
		listings, err := s.primary.Find(ctx, q)
		if err == nil {
			s.degraded.Store(false)
			return listings, nil
		}
		s.recovered("find", err)
	} else {
		s.recovered("find", nil)
	}
	return s.fallback.Find(ctx, q)
}

func (s *FailoverStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	if s.primary != nil {
		listing, err := s.primary.FindByID(ctx, id)
		if err == nil || errors.Is(err, types.ErrNotFound) {
			s.degraded.Store(false)
			return listing, err
		}
		s.recovered("find_by_id", err)
	} else {
		s.recovered("find_by_id", nil)
	}
	return s.fallback.FindByID(ctx, id)
}

func (s *FailoverStore) FindBySeller(ctx context.Context, email string) ([]models.Listing, error) {
	if s.primary != nil {
		listings, err := s.primary.FindBySeller(ctx, email)
		if err == nil {
			s.degraded.Store(false)
			return listings, nil
		}
		s.recovered("find_by_seller", err)
	} else {
		s.recovered("find_by_seller", nil)
	}
	return s.fallback.FindBySeller(ctx, email)
}

func (s *FailoverStore) Insert(ctx context.Context, listing *models.Listing) (string, error) {
	if s.primary == nil {
		return "", errNoPrimary
	}
	return s.primary.Insert(ctx, listing)
}

func (s *FailoverStore) Update(ctx context.Context, id string, update *models.ListingUpdate) (int64, error) {
	if s.primary == nil {
		return 0, errNoPrimary
	}
	return s.primary.Update(ctx, id, update)
}

func (s *FailoverStore) Delete(ctx context.Context, id string) (int64, error) {
	if s.primary == nil {
		return 0, errNoPrimary
	}
	return s.primary.Delete(ctx, id)
}

func (s *FailoverStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	if s.primary == nil {
		return 0, errNoPrimary
	}
	return s.primary.IncrementViews(ctx, id)
}

func (s *FailoverStore) InsertUser(ctx context.Context, u *models.User) (string, bool, error) {
	if s.primary == nil {
		return "", false, errNoPrimary
	}
	return s.primary.InsertUser(ctx, u)
}

func (s *FailoverStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	if s.primary == nil {
		return nil, errNoPrimary
	}
	return s.primary.FindUser(ctx, email)
}

func (s *FailoverStore) UpsertUser(ctx context.Context, email string, update *models.UserUpdate) (int64, error) {
	if s.primary == nil {
		return 0, errNoPrimary
	}
	return s.primary.UpsertUser(ctx, email, update)
}

func (s *FailoverStore) DeleteUser(ctx context.Context, email string) (int64, error) {
	if s.primary == nil {
		return 0, errNoPrimary
	}
	return s.primary.DeleteUser(ctx, email)
}

func (s *FailoverStore) Ping(ctx context.Context) error {
	if s.primary == nil {
		return errNoPrimary
	}
	return s.primary.Ping(ctx)
}

func (s *FailoverStore) Close(ctx context.Context) error {
	if s.primary == nil {
		return nil
	}
	return s.primary.Close(ctx)
}

func (s *FailoverStore) Name() string {
	if s.primary == nil {
		return "static"
	}
	return s.primary.Name()
}
