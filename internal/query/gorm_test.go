package query_test

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database seeded with listings
func setupTestDB(t *testing.T, listings []models.Listing) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Listing{}))
	require.NoError(t, db.Create(&listings).Error)
	return db
}

// TestScopeAgreesWithApply runs the same queries through SQL and memory.
func TestScopeAgreesWithApply(t *testing.T) {
	all := fixtures()
	all = append(all,
		models.Listing{ID: "6", Title: "100% wool scarf", Price: 12, Category: models.CategoryClothing, Condition: models.ConditionGood, SellerEmail: "d@campus.edu", CreatedAt: base.Add(4 * time.Hour)},
		models.Listing{ID: "7", Title: "snake_case guide", Price: 7, Category: models.CategoryBooks, Condition: models.ConditionPoor, SellerEmail: "d@campus.edu", CreatedAt: base.Add(5 * time.Hour)},
		models.Listing{ID: "8", Title: "École chair", Price: 30, Category: models.CategoryFurniture, Condition: models.ConditionFair, SellerEmail: "e@campus.edu", CreatedAt: base.Add(6 * time.Hour)},
	)
	db := setupTestDB(t, all)

	cases := []query.Params{
		{},
		{Category: "All", Sort: "price-low"},
		{Category: "Books"},
		{Category: "Furniture", Sort: "price-high"},
		{Search: "BOOK"},
		{Search: "lamp", Category: "Books"},
		{Search: "%"},
		{Search: "e_c"},
		{Sort: "price-high", Limit: 3},
		{Search: "école"},
		{Search: "ÉCOLE", Limit: 1},
		{Search: "chair", Sort: "price-low", Limit: 1},
	}

	for _, p := range cases {
		q := query.Build(p)
		t.Run(q.Key(), func(t *testing.T) {
			got, err := q.Find(db)
			require.NoError(t, err)
			assert.Equal(t, ids(q.Apply(all)), ids(got))
		})
	}
}

func TestScopeLeavesNonASCIIFoldingToMemoryOnSQLite(t *testing.T) {
	db := setupTestDB(t, fixtures())
	q := query.Build(query.Params{Search: "école", Limit: 2})

	stmt := db.Session(&gorm.Session{DryRun: true}).Scopes(q.Scope).Find(&[]models.Listing{}).Statement
	sql := stmt.SQL.String()
	assert.NotContains(t, sql, "LIKE")
	assert.NotContains(t, sql, "LIMIT")

	unfiltered := query.Build(query.Params{Category: "Books", Limit: 1})
	stmt = db.Session(&gorm.Session{DryRun: true}).Scopes(unfiltered.Scope).Find(&[]models.Listing{}).Statement
	assert.Contains(t, stmt.SQL.String(), "LIMIT")
}
