package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/testutil"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupMongoStore(t *testing.T) *store.MongoStore {
	if testing.Short() {
		t.Skip("Skipping MongoDB integration test in short mode")
	}

	ctx := context.Background()
	container, uri, err := testutil.StartMongo(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to start MongoDB: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	s := store.NewMongoStore(client, "CampusMarketTest", "products", "users")
	t.Cleanup(func() { s.Close(context.Background()) })
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

// TestMongoStoreIntegration exercises the MongoDB store against a real server
func TestMongoStoreIntegration(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})

	static := staticStore(t)
	for _, l := range static.Listings() {
		l := l
		_, err := s.Insert(ctx, &l)
		require.NoError(t, err)
	}

	t.Run("FindAgreesWithStatic", func(t *testing.T) {
		for _, p := range []query.Params{
			{},
			{Category: "Books"},
			{Sort: "price-low"},
			{Sort: "price-high", Limit: 4},
			{Search: "DESK"},
			{Search: "c++"},
		} {
			q := query.Build(p)
			want, err := static.Find(ctx, q)
			require.NoError(t, err)
			got, err := s.Find(ctx, q)
			require.NoError(t, err)

			wantTitles := make([]string, len(want))
			for i := range want {
				wantTitles[i] = want[i].Title
			}
			gotTitles := make([]string, len(got))
			for i := range got {
				gotTitles[i] = got[i].Title
			}
			assert.Equal(t, wantTitles, gotTitles, q.Key())
		}
	})

	t.Run("Lifecycle", func(t *testing.T) {
		id, err := s.Insert(ctx, newListing("Rice Cooker", "cook@campus.edu"))
		require.NoError(t, err)
		assert.True(t, primitive.IsValidObjectID(id))

		got, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Rice Cooker", got.Title)

		n, err := s.Update(ctx, id, &models.ListingUpdate{Title: "Big Rice Cooker", Price: price(18), Category: models.CategoryOther, Condition: models.ConditionFair})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		owned, err := s.FindBySeller(ctx, "cook@campus.edu")
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, "Big Rice Cooker", owned[0].Title)

		n, err = s.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = s.Delete(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, n)

		got, err = s.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("MalformedID", func(t *testing.T) {
		_, err := s.FindByID(ctx, "nope")
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.IncrementViews(ctx, "nope")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("ConcurrentViews", func(t *testing.T) {
		id, err := s.Insert(ctx, newListing("Popular", "pop@campus.edu"))
		require.NoError(t, err)

		const viewers = 50
		var wg sync.WaitGroup
		for i := 0; i < viewers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.IncrementViews(ctx, id)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(viewers), got.Views)
	})

	t.Run("Users", func(t *testing.T) {
		u := &models.User{Email: "arif@campus.edu", Name: "Arif", CreatedAt: time.Now().UTC()}
		id, created, err := s.InsertUser(ctx, u)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, id)

		_, created, err = s.InsertUser(ctx, u)
		require.NoError(t, err)
		assert.False(t, created)

		n, err := s.UpsertUser(ctx, "arif@campus.edu", &models.UserUpdate{Name: "Arif H", Status: models.StatusOnline})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := s.FindUser(ctx, "arif@campus.edu")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Arif H", got.Name)
		assert.Equal(t, id, got.ID)

		n, err = s.DeleteUser(ctx, "arif@campus.edu")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
