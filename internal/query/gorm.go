package query

import (
	"strings"

	"github.com/localnerve/campus-market/internal/models"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards with '!', which every supported dialect
// accepts as an ESCAPE character. '[' is a wildcard on sqlserver.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

// foldsInDatabase reports whether the search filter of q can run in SQL on db.
// SQLite LOWER and LIKE fold ASCII letters only.
func (q Query) foldsInDatabase(db *gorm.DB) bool {
	return q.Search == "" || db.Dialector == nil || db.Dialector.Name() != "sqlite"
}

// Scope renders q as a GORM scope over the listings table. When the dialect
// cannot fold case outside ASCII the search filter and limit are left out;
// Find applies them in memory.
//
//	db.Scopes(q.Scope).Find(&listings)
func (q Query) Scope(db *gorm.DB) *gorm.DB {
	inSQL := q.foldsInDatabase(db)

	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.Search != "" && inSQL {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		db = db.Where("LOWER(title) LIKE ? ESCAPE '!'", pattern)
	}

	switch q.Sort {
	case SortPriceLow:
		db = db.Order("price ASC")
	case SortPriceHigh:
		db = db.Order("price DESC")
	default:
		db = db.Order("created_at DESC")
	}

	if q.Limit > 0 && inSQL {
		db = db.Limit(q.Limit)
	}
	return db
}

// Find loads the listings matching q from db, finishing in memory whatever
// Scope could not express for the dialect.
func (q Query) Find(db *gorm.DB) ([]models.Listing, error) {
	listings := []models.Listing{}
	if err := db.Scopes(q.Scope).Find(&listings).Error; err != nil {
		return nil, err
	}
	if !q.foldsInDatabase(db) {
		listings = q.Apply(listings)
	}
	return listings, nil
}
