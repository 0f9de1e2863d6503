package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

const sellerEmailIndex = "idx_listings_seller_email"

// SQLStore keeps listings and users in relational tables through GORM.
// Listing ids are UUIDs.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an open GORM connection. The tables must already be migrated.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Find(ctx context.Context, q query.Query) ([]models.Listing, error) {
	listings, err := q.Find(s.db.WithContext(ctx))
	if err != nil {
		return nil, sqlError("find listings", err)
	}
	return listings, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	if err := validUUID(id); err != nil {
		return nil, err
	}

	var listing models.Listing
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, sqlError("find listing", err)
	}
	return &listing, nil
}

func (s *SQLStore) FindBySeller(ctx context.Context, email string) ([]models.Listing, error) {
	tx := s.db.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(hints.UseIndex(sellerEmailIndex))
	}

	listings := []models.Listing{}
	if err := tx.Where("seller_email = ?", email).Find(&listings).Error; err != nil {
		return nil, sqlError("find seller listings", err)
	}
	return listings, nil
}

func (s *SQLStore) Insert(ctx context.Context, listing *models.Listing) (string, error) {
	row := *listing
	row.ID = uuid.NewString()

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", sqlError("insert listing", err)
	}
	return row.ID, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, update *models.ListingUpdate) (int64, error) {
	if err := validUUID(id); err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", id).Updates(update.Fields())
	if result.Error != nil {
		return 0, sqlError("update listing", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (int64, error) {
	if err := validUUID(id); err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Listing{})
	if result.Error != nil {
		return 0, sqlError("delete listing", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	if err := validUUID(id); err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return 0, sqlError("increment views", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLStore) InsertUser(ctx context.Context, u *models.User) (string, bool, error) {
	existing, err := s.FindUser(ctx, u.Email)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.Email, false, nil
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return "", false, nil
		}
		return "", false, sqlError("insert user", err)
	}
	return u.Email, true, nil
}

func (s *SQLStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, sqlError("find user", err)
	}
	return &u, nil
}

func (s *SQLStore) UpsertUser(ctx context.Context, email string, update *models.UserUpdate) (int64, error) {
	row := models.User{
		Email:      email,
		Name:       update.Name,
		Avatar:     update.Avatar,
		Phone:      update.Phone,
		University: update.University,
		Status:     update.Status,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "university", "avatar", "status"}),
	}).Create(&row).Error
	if err != nil {
		return 0, sqlError("upsert user", err)
	}
	// Dialects disagree on the row count of an upsert; one user was written.
	return 1, nil
}

func (s *SQLStore) DeleteUser(ctx context.Context, email string) (int64, error) {
	result := s.db.WithContext(ctx).Where("email = ?", email).Delete(&models.User{})
	if result.Error != nil {
		return 0, sqlError("delete user", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return sqlError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sqlError("ping", err)
	}
	return nil
}

func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) Name() string {
	return s.db.Dialector.Name()
}

func validUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", types.ErrNotFound, id)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// sqlError wraps err, marking connectivity failures as store unavailability.
func sqlError(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, types.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
