package pipeline_test

import (
	"math"
	"testing"
	"time"

	"github.com/localnerve/campus-market/internal/pipeline"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func ids(items []pipeline.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func sample() []pipeline.Item {
	return []pipeline.Item{
		{ID: "calc", Title: "Calculus Book", Description: "Stewart", Category: "Books", Price: types.Float(20), CreatedAt: types.Time(t0)},
		{ID: "lamp", Title: "Desk Lamp", Description: "Bright enough to read a book", Category: "Furniture", Price: types.Float(15), CreatedAt: types.Time(t0.Add(time.Hour))},
		{ID: "phys", Title: "Physics", Description: "Halliday textbook", Category: "Books", Price: types.Float(35), CreatedAt: types.Time(t0.Add(2 * time.Hour))},
		{ID: "shoe", Title: "Running Shoes", Category: "Sports", Price: types.Float(30), CreatedAt: types.Time(t0.Add(-time.Hour))},
	}
}

func TestRunExampleScenario(t *testing.T) {
	items := sample()[:2]
	assert.Equal(t, []string{"calc"}, ids(pipeline.Run(items, pipeline.Options{Category: "Books"})))
	assert.Equal(t, []string{"lamp", "calc"}, ids(pipeline.Run(items, pipeline.Options{Category: "All", Sort: "price-low"})))
}

func TestRunSearchCoversDescription(t *testing.T) {
	got := pipeline.Run(sample(), pipeline.Options{Search: "BOOK", Category: "All"})
	// phys matches on "textbook", lamp on its description.
	assert.Equal(t, []string{"phys", "lamp", "calc"}, ids(got))
}

func TestRunConjunction(t *testing.T) {
	// lamp matches the text but not the category; phys the category but not the text.
	got := pipeline.Run(sample(), pipeline.Options{Search: "read", Category: "Books"})
	assert.Empty(t, got)

	got = pipeline.Run(sample(), pipeline.Options{Search: "stewart", Category: "Books"})
	assert.Equal(t, []string{"calc"}, ids(got))
}

func TestRunCategoryAllIsIdentity(t *testing.T) {
	items := sample()
	assert.ElementsMatch(t, ids(items), ids(pipeline.Run(items, pipeline.Options{Category: "All"})))
	assert.ElementsMatch(t, ids(items), ids(pipeline.Run(items, pipeline.Options{})))
}

func TestRunCategoryIsExact(t *testing.T) {
	assert.Empty(t, pipeline.Run(sample(), pipeline.Options{Category: "books"}))
}

func TestRunPriceOrdersAreReversed(t *testing.T) {
	low := ids(pipeline.Run(sample(), pipeline.Options{Sort: "price-low"}))
	high := ids(pipeline.Run(sample(), pipeline.Options{Sort: "price-high"}))
	require.Len(t, high, len(low))
	for i := range low {
		assert.Equal(t, low[i], high[len(high)-1-i])
	}
}

func TestRunNewestIsNonIncreasing(t *testing.T) {
	got := pipeline.Run(sample(), pipeline.Options{Sort: "newest"})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].CreatedAt.UnixOrNegInf(), got[i].CreatedAt.UnixOrNegInf())
	}
}

func TestRunIsPure(t *testing.T) {
	items := sample()
	before := ids(items)
	first := pipeline.Run(items, pipeline.Options{Sort: "price-high"})
	second := pipeline.Run(items, pipeline.Options{Sort: "price-high"})
	assert.Equal(t, before, ids(items))
	assert.Equal(t, ids(first), ids(second))
}

func TestRunMalformedValuesSortSmallest(t *testing.T) {
	data := []byte(`[
		{"_id": "ok", "title": "A", "price": 10, "createdAt": "2025-09-01T12:00:00Z"},
		{"_id": "text", "title": "B", "price": "ten", "createdAt": "not a date"},
		{"_id": "missing", "title": "C"},
		{"_id": "str", "title": "D", "price": "5.5", "createdAt": 1756728000000}
	]`)
	items, err := pipeline.Decode(data)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.False(t, items[1].Price.Valid)
	assert.True(t, math.IsInf(items[2].Price.OrNegInf(), -1))
	assert.Equal(t, 5.5, items[3].Price.Value)

	assert.Equal(t, []string{"text", "missing", "str", "ok"}, ids(pipeline.Run(items, pipeline.Options{Sort: "price-low"})))
	assert.Equal(t, []string{"ok", "str", "text", "missing"}, ids(pipeline.Run(items, pipeline.Options{Sort: "price-high"})))
	// 1756728000000 ms is 2025-09-01T12:00:00Z, a tie with "ok" that keeps input order.
	assert.Equal(t, []string{"ok", "str", "text", "missing"}, ids(pipeline.Run(items, pipeline.Options{})))
}

func TestRunMissingTextFields(t *testing.T) {
	items := []pipeline.Item{{ID: "blank"}, {ID: "named", Title: "Lamp"}}
	assert.Equal(t, []string{"named"}, ids(pipeline.Run(items, pipeline.Options{Search: "lamp"})))
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := pipeline.Decode([]byte(`{"message":"Server error"}`))
	assert.Error(t, err)
}
