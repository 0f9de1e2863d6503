package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps listings and users in two MongoDB collections.
type MongoStore struct {
	client   *mongo.Client
	products *mongo.Collection
	users    *mongo.Collection
}

// NewMongoStore uses the named database and collections of client.
func NewMongoStore(client *mongo.Client, database, products, users string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		products: db.Collection(products),
		users:    db.Collection(users),
	}
}

// EnsureIndexes creates the owner lookup, recency and unique email indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sellerEmail", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return mongoError("create product indexes", err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return mongoError("create user indexes", err)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, q query.Query) ([]models.Listing, error) {
	return s.findListings(ctx, q.Filter(), q.FindOptions())
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var listing models.Listing
	err = s.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, mongoError("find listing", err)
	}
	return &listing, nil
}

func (s *MongoStore) FindBySeller(ctx context.Context, email string) ([]models.Listing, error) {
	return s.findListings(ctx, bson.M{"sellerEmail": email})
}

func (s *MongoStore) findListings(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Listing, error) {
	cursor, err := s.products.Find(ctx, filter, opts...)
	if err != nil {
		return nil, mongoError("find listings", err)
	}

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, mongoError("decode listings", err)
	}
	return listings, nil
}

func (s *MongoStore) Insert(ctx context.Context, listing *models.Listing) (string, error) {
	doc := *listing
	doc.ID = ""

	result, err := s.products.InsertOne(ctx, &doc)
	if err != nil {
		return "", mongoError("insert listing", err)
	}
	return insertedID(result.InsertedID), nil
}

func (s *MongoStore) Update(ctx context.Context, id string, update *models.ListingUpdate) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	result, err := s.products.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(update.Fields())})
	if err != nil {
		return 0, mongoError("update listing", err)
	}
	return result.MatchedCount, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	result, err := s.products.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, mongoError("delete listing", err)
	}
	return result.DeletedCount, nil
}

func (s *MongoStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	result, err := s.products.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return 0, mongoError("increment views", err)
	}
	return result.ModifiedCount, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, u *models.User) (string, bool, error) {
	existing, err := s.FindUser(ctx, u.Email)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	doc := *u
	doc.ID = ""
	result, err := s.users.InsertOne(ctx, &doc)
	if mongo.IsDuplicateKeyError(err) {
		// Lost a race with a concurrent insert of the same email.
		return "", false, nil
	}
	if err != nil {
		return "", false, mongoError("insert user", err)
	}
	return insertedID(result.InsertedID), true, nil
}

func (s *MongoStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, mongoError("find user", err)
	}
	return &u, nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, email string, update *models.UserUpdate) (int64, error) {
	doc := bson.M{
		"$set":         bson.M(update.Fields()),
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}
	result, err := s.users.UpdateOne(ctx, bson.M{"email": email}, doc, options.Update().SetUpsert(true))
	if err != nil {
		return 0, mongoError("upsert user", err)
	}
	return result.MatchedCount + result.UpsertedCount, nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, email string) (int64, error) {
	result, err := s.users.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return 0, mongoError("delete user", err)
	}
	return result.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return mongoError("ping", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Name() string {
	return "mongodb"
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", types.ErrNotFound, id)
	}
	return oid, nil
}

func insertedID(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}

// mongoError wraps err, marking connectivity failures as store unavailability.
func mongoError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, types.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
