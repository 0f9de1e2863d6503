package server

import (
	"context"
	"fmt"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/database"
	"github.com/localnerve/campus-market/internal/store"
	"go.uber.org/zap"
)

// OpenStore connects the configured persistent store, wraps it in the redis
// cache when one is configured, and puts the bundled listings behind it.
// A persistent store that cannot be reached at startup is logged and left
// out, so listing reads are served from the bundled data.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.FailoverStore, error) {
	static, err := store.LoadStaticStore()
	if err != nil {
		return nil, fmt.Errorf("failed to load bundled listings: %w", err)
	}

	primary, err := openPrimary(ctx, cfg, log)
	if err != nil {
		log.Warn("Persistent store unavailable, serving bundled listings",
			zap.String("type", cfg.StoreType), zap.Error(err))
		primary = nil
	}

	if primary != nil {
		client, err := database.ConnectRedis(ctx, cfg, log)
		switch {
		case err != nil:
			log.Warn("Redis unavailable, listing cache disabled", zap.Error(err))
		case client != nil:
			primary = store.NewCachedStore(primary, client, cfg.CacheTTL, log)
		}
	}

	return store.NewFailoverStore(primary, static, log), nil
}

func openPrimary(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch {
	case cfg.StoreType == "static":
		return nil, nil

	case cfg.StoreType == "mongodb":
		client, err := database.ConnectMongo(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		s := store.NewMongoStore(client, cfg.MongoDatabase, cfg.MongoProductsCollection, cfg.MongoUsersCollection)
		if err := s.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to create MongoDB indexes", zap.Error(err))
		}
		return s, nil

	case cfg.IsSQL():
		db, err := database.Connect(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store.NewSQLStore(db), nil
	}

	return nil, fmt.Errorf("unsupported store type: %s", cfg.StoreType)
}
