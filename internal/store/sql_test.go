package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/testutil"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListing(title, seller string) *models.Listing {
	return &models.Listing{
		Title:       title,
		Description: title + " in good shape",
		Price:       10,
		Category:    models.CategoryOther,
		Condition:   models.ConditionGood,
		SellerName:  "Seller",
		SellerEmail: seller,
		CreatedAt:   time.Now().UTC(),
	}
}

func price(v float64) *float64 { return &v }

func TestSQLStoreListingLifecycle(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLStore(testutil.OpenSQLite(t))

	id, err := s.Insert(ctx, newListing("Bike Lock", "owner@campus.edu"))
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bike Lock", got.Title)
	assert.Equal(t, int64(0), got.Views)

	update := &models.ListingUpdate{
		Title:       "Heavy Bike Lock",
		Price:       price(12.5),
		Category:    models.CategorySports,
		Condition:   models.ConditionLikeNew,
		Description: "U-lock with two keys",
		Location:    "Bike shed",
	}
	n, err := s.Update(ctx, id, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Same values again still match the row.
	n, err = s.Update(ctx, id, update)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Heavy Bike Lock", got.Title)
	assert.Equal(t, models.CategorySports, got.Category)
	assert.Equal(t, "owner@campus.edu", got.SellerEmail)

	owned, err := s.FindBySeller(ctx, "owner@campus.edu")
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	n, err = s.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLStoreMissingIDIsSoft(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLStore(testutil.OpenSQLite(t))
	missing := uuid.NewString()

	n, err := s.Update(ctx, missing, &models.ListingUpdate{Title: "x", Category: models.CategoryOther, Condition: models.ConditionGood})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Delete(ctx, missing)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.IncrementViews(ctx, missing)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLStoreMalformedID(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLStore(testutil.OpenSQLite(t))

	_, err := s.FindByID(ctx, "123")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.Update(ctx, "123", &models.ListingUpdate{})
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.Delete(ctx, "123")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.IncrementViews(ctx, "123")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSQLStoreConcurrentViews(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLStore(testutil.OpenSQLite(t))

	id, err := s.Insert(ctx, newListing("Popular Item", "owner@campus.edu"))
	require.NoError(t, err)

	const viewers = 25
	var wg sync.WaitGroup
	errs := make(chan error, viewers)
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.IncrementViews(ctx, id); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("increment failed: %v", err)
	}

	got, err := s.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), got.Views)
}

func TestSQLStoreFind(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLStore(testutil.OpenSQLite(t))

	cheap := newListing("Cheap Notebook", "a@campus.edu")
	cheap.Price = 2
	cheap.Category = models.CategoryBooks
	pricey := newListing("Laptop Stand", "b@campus.edu")
	pricey.Price = 40
	pricey.CreatedAt = cheap.CreatedAt.Add(time.Minute)
	for _, l := range []*models.Listing{cheap, pricey} {
		_, err := s.Insert(ctx, l)
		require.NoError(t, err)
	}

	got, err := s.Find(ctx, query.Build(query.Params{Sort: "price-high"}))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Laptop Stand", got[0].Title)

	got, err = s.Find(ctx, query.Build(query.Params{}))
	require.NoError(t, err)
	assert.Equal(t, "Laptop Stand", got[0].Title)

	got, err = s.Find(ctx, query.Build(query.Params{Category: "Books", Search: "NOTE"}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cheap Notebook", got[0].Title)

	got, err = s.Find(ctx, query.Build(query.Params{Category: "Books", Search: "stand"}))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLStore(testutil.OpenSQLite(t))

	u := &models.User{Email: "nadia@campus.edu", Name: "Nadia", CreatedAt: time.Now().UTC()}
	id, created, err := s.InsertUser(ctx, u)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "nadia@campus.edu", id)

	_, created, err = s.InsertUser(ctx, &models.User{Email: "nadia@campus.edu", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.FindUser(ctx, "nadia@campus.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Nadia", got.Name)

	n, err := s.UpsertUser(ctx, "nadia@campus.edu", &models.UserUpdate{Name: "Nadia R", University: "State", Status: models.StatusOnline})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = s.FindUser(ctx, "nadia@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, "Nadia R", got.Name)
	assert.Equal(t, models.StatusOnline, got.Status)

	// Upsert creates unknown users.
	_, err = s.UpsertUser(ctx, "new@campus.edu", &models.UserUpdate{Name: "New", Status: models.StatusOffline})
	require.NoError(t, err)
	got, err = s.FindUser(ctx, "new@campus.edu")
	require.NoError(t, err)
	require.NotNil(t, got)

	n, err = s.DeleteUser(ctx, "nadia@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err = s.FindUser(ctx, "nadia@campus.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}
