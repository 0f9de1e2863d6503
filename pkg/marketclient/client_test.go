package marketclient_test

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/handlers"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/testutil"
	"github.com/localnerve/campus-market/pkg/marketclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "marketclient-secret"

// startServer serves the routes on a loopback port and returns its base URL
func startServer(t *testing.T, primary store.Store) string {
	t.Helper()

	static, err := store.LoadStaticStore()
	require.NoError(t, err)
	st := store.NewFailoverStore(primary, static, zap.NewNop())

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler, DisableStartupMessage: true})
	handlers.SetupRoutes(app, handlers.Routes{
		Products: &handlers.ProductHandler{Listings: services.NewListingService(st)},
		Users:    &handlers.UserHandler{Users: services.NewUserService(st)},
		Status:   &handlers.StatusHandler{Store: st, Config: &config.Config{}},
		Auth:     services.NewJWTAuthenticator(secret),
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func titles(items []marketclient.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestBrowseFetchedCatalog(t *testing.T) {
	client := marketclient.New(startServer(t, nil), marketclient.WithTimeout(5*time.Second))

	catalog, err := client.FetchCatalog()
	require.NoError(t, err)
	assert.Equal(t, 12, catalog.Len())

	// descriptions are searched locally
	got := catalog.Browse(marketclient.Options{Search: "usb", Category: "All", Sort: "price-high"})
	assert.Equal(t, []string{"Mechanical Keyboard", "Desk Lamp"}, titles(got))

	got = catalog.Browse(marketclient.Options{Category: "Clothing", Sort: "price-low"})
	assert.Equal(t, []string{"University Hoodie (M)", "Winter Jacket (L)"}, titles(got))

	assert.Equal(t, 12, catalog.Len())
	assert.Len(t, catalog.Browse(marketclient.Options{}), 12)
}

func TestFeaturedAndStatus(t *testing.T) {
	client := marketclient.New(startServer(t, nil))

	featured, err := client.Featured(8)
	require.NoError(t, err)
	assert.Len(t, featured, 8)

	status, err := client.Status()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.True(t, status.UsingFallback)
}

func TestRecordView(t *testing.T) {
	ctx := t.Context()
	s := store.NewSQLStore(testutil.OpenSQLite(t))
	base := startServer(t, s)

	token, err := services.NewJWTAuthenticator(secret).IssueToken("owner@campus.edu", time.Hour)
	require.NoError(t, err)
	price := 12.0
	id, err := services.NewListingService(s).Create(ctx, "owner@campus.edu", &services.ListingInput{
		Title:       "Lab Coat",
		Description: "Size M",
		Price:       &price,
		Category:    "Clothing",
		Condition:   "Good",
	})
	require.NoError(t, err)

	n, err := marketclient.New(base, marketclient.WithToken(token)).RecordView(id, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = marketclient.New(base).RecordView(id, "buyer@campus.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = marketclient.New(base).RecordView("not-an-id", "")
	assert.ErrorContains(t, err, "status 400")
}

func TestRequestErrors(t *testing.T) {
	_, err := marketclient.New("http://127.0.0.1:1", marketclient.WithTimeout(time.Second)).Status()
	assert.Error(t, err)
}

func TestCatalogFromDecodedItems(t *testing.T) {
	var items []marketclient.Item
	data := `[
		{"_id": "a", "title": "Desk Lamp", "price": 12.5, "category": "Furniture"},
		{"_id": "b", "title": "Mug", "price": "oops", "category": "Kitchen"},
		{"_id": "c", "title": "Stool", "price": "30", "category": "Furniture"}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &items))

	got := marketclient.NewCatalog(items).Browse(marketclient.Options{Sort: "price-high"})
	assert.Equal(t, []string{"Stool", "Desk Lamp", "Mug"}, titles(got))

	var price marketclient.FlexFloat = got[0].Price
	assert.True(t, price.Valid)
	assert.Equal(t, 30.0, price.Value)
	assert.False(t, got[2].Price.Valid)
}
