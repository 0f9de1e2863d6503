package query_test

import (
	"testing"

	"github.com/localnerve/campus-market/internal/query"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, query.Build(query.Params{Category: "All"}).Filter())

	got := query.Build(query.Params{Category: "Books", Search: "c++ (2nd)"}).Filter()
	assert.Equal(t, bson.M{
		"category": "Books",
		"title":    bson.M{"$regex": `c\+\+ \(2nd\)`, "$options": "i"},
	}, got)
}

func TestSortDocument(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, query.Build(query.Params{}).SortDocument())
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, query.Build(query.Params{Sort: "price-low"}).SortDocument())
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, query.Build(query.Params{Sort: "price-high"}).SortDocument())
}

func TestFindOptions(t *testing.T) {
	opts := query.Build(query.Params{Sort: "price-low", Limit: 8}).FindOptions()
	if assert.NotNil(t, opts.Limit) {
		assert.Equal(t, int64(8), *opts.Limit)
	}
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, opts.Sort)

	assert.Nil(t, query.Build(query.Params{}).FindOptions().Limit)
}
