package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/localnerve/campus-market/internal/types"
)

// Category is the fixed set of listing categories.
type Category string

const (
	CategoryBooks       Category = "Books"
	CategoryElectronics Category = "Electronics"
	CategoryFurniture   Category = "Furniture"
	CategoryClothing    Category = "Clothing"
	CategorySports      Category = "Sports"
	CategoryOther       Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryBooks,
	CategoryElectronics,
	CategoryFurniture,
	CategoryClothing,
	CategorySports,
	CategoryOther,
}

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Condition is the fixed set of item conditions.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

// Conditions lists every valid condition, best first.
var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionFair,
	ConditionPoor,
}

// Valid reports whether c is a member of the condition enumeration.
func (c Condition) Valid() bool {
	for _, v := range Conditions {
		if c == v {
			return true
		}
	}
	return false
}

// Listing is a for-sale item owned by a single seller, identified by email.
// The same struct is the JSON wire shape, the Mongo document and the SQL row.
type Listing struct {
	ID          string    `json:"_id" bson:"_id,omitempty" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" bson:"title" gorm:"size:255;not null"`
	Description string    `json:"description" bson:"description" gorm:"type:text"`
	Price       float64   `json:"price" bson:"price" gorm:"not null;index"`
	Category    Category  `json:"category" bson:"category" gorm:"size:32;not null;index"`
	Condition   Condition `json:"condition" bson:"condition" gorm:"size:32;not null"`
	Image       string    `json:"image" bson:"image" gorm:"size:1024"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty" gorm:"size:255"`
	SellerName  string    `json:"sellerName" bson:"sellerName" gorm:"size:255"`
	SellerEmail string    `json:"sellerEmail" bson:"sellerEmail" gorm:"size:255;not null;index:idx_listings_seller_email"`
	Views       int64     `json:"views" bson:"views" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
}

// TableName overrides the table name for Listing
func (Listing) TableName() string {
	return "listings"
}

// Validate checks the listing invariants: required fields present, price
// non-negative, enumerations respected and views non-negative.
func (l *Listing) Validate() error {
	var problems []string
	if strings.TrimSpace(l.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(l.Description) == "" {
		problems = append(problems, "description is required")
	}
	problems = append(problems, validatePrice(l.Price)...)
	problems = append(problems, validateEnums(l.Category, l.Condition)...)
	if strings.TrimSpace(l.SellerEmail) == "" {
		problems = append(problems, "sellerEmail is required")
	}
	if l.Views < 0 {
		problems = append(problems, "views must not be negative")
	}
	return validationError(problems)
}

// ListingUpdate holds the fields an owner may overwrite on a listing. Every
// field is overwritten, so Price is required like on create.
type ListingUpdate struct {
	Title       string    `json:"title"`
	Price       *float64  `json:"price"`
	Category    Category  `json:"category"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Location    string    `json:"location"`
}

// Validate checks that the update keeps the listing invariants.
func (u *ListingUpdate) Validate() error {
	var problems []string
	if strings.TrimSpace(u.Title) == "" {
		problems = append(problems, "title is required")
	}
	if u.Price == nil {
		problems = append(problems, "price is required")
	} else {
		problems = append(problems, validatePrice(*u.Price)...)
	}
	problems = append(problems, validateEnums(u.Category, u.Condition)...)
	return validationError(problems)
}

// Fields returns the update as column/field name pairs shared by the Mongo
// and SQL stores.
func (u *ListingUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"title":       u.Title,
		"category":    u.Category,
		"condition":   u.Condition,
		"description": u.Description,
		"image":       u.Image,
		"location":    u.Location,
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	return fields
}

// Apply overwrites the updatable fields of l.
func (u *ListingUpdate) Apply(l *Listing) {
	l.Title = u.Title
	if u.Price != nil {
		l.Price = *u.Price
	}
	l.Category = u.Category
	l.Condition = u.Condition
	l.Description = u.Description
	l.Image = u.Image
	l.Location = u.Location
}

func validatePrice(price float64) []string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return []string{"price must be a number"}
	}
	if price < 0 {
		return []string{"price must not be negative"}
	}
	return nil
}

func validateEnums(category Category, condition Condition) []string {
	var problems []string
	if !category.Valid() {
		problems = append(problems, fmt.Sprintf("category %q is not one of %v", category, Categories))
	}
	if !condition.Valid() {
		problems = append(problems, fmt.Sprintf("condition %q is not one of %v", condition, Conditions))
	}
	return problems
}

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", types.ErrValidation, strings.Join(problems, "; "))
}
