package database

import (
	"testing"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialectorNames(t *testing.T) {
	tests := map[string]string{
		"mysql":       "mysql",
		"mariadb":     "mysql",
		"postgres":    "postgres",
		"sqlite":      "sqlite",
		"sqlite-pure": "sqlite",
		"sqlserver":   "sqlserver",
	}

	for storeType, want := range tests {
		t.Run(storeType, func(t *testing.T) {
			d, err := Dialector(&config.Config{StoreType: storeType, DBDatabase: "campus"})
			require.NoError(t, err)
			assert.Equal(t, want, d.Name())
		})
	}

	_, err := Dialector(&config.Config{StoreType: "oracle"})
	assert.Error(t, err)
}

func TestConnectAndMigrateSQLite(t *testing.T) {
	cfg := &config.Config{
		StoreType:         "sqlite-pure",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 1,
		LogLevel:          "error",
	}

	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&models.Listing{}))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasIndex(&models.Listing{}, "idx_listings_seller_email"))
}
