package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter renders the filters of q as a MongoDB filter document.
// The search text is quoted so it matches literally.
func (q Query) Filter() bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}
	return filter
}

// SortDocument renders the order of q as a MongoDB sort document.
func (q Query) SortDocument() bson.D {
	switch q.Sort {
	case SortPriceLow:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceHigh:
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// FindOptions renders the order and limit of q as find options.
func (q Query) FindOptions() *options.FindOptions {
	opts := options.Find().SetSort(q.SortDocument())
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}
