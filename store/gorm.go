package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"imagelens/image-api/model"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB

	// Upper bound for a single operation, waiting for a free pool
	// connection included. Zero disables the deadline
	timeout time.Duration
}

func NewGorm(db *gorm.DB) *GormStore {
	return &GormStore{
		db:      db,
		timeout: time.Duration(viper.GetInt("db.timeout_seconds")) * time.Second,
	}
}

// opCtx puts the operation deadline on ctx. When the pool is exhausted
// the blocked acquire times out and mapErr turns it into ErrUnavailable
func (s *GormStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GormStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var user model.User

	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	return &user, nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var user model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	return &user, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var user model.User

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	return &user, nil
}

func (s *GormStore) Insert(ctx context.Context, user *model.User) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return mapErr(s.db.WithContext(ctx).Create(user).Error)
}

// InsertAnalysis wraps the insert in its own transaction. The row
// either commits whole or leaves nothing behind
func (s *GormStore) InsertAnalysis(ctx context.Context, a *model.Analysis) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	return mapErr(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(a).Error
	}))
}

func (s *GormStore) AnalysisByID(ctx context.Context, id string) (*model.Analysis, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var a model.Analysis

	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&a).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	return &a, nil
}

func (s *GormStore) ListByOwner(ctx context.Context, userID uint) ([]model.Analysis, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var entries []model.Analysis

	err := s.db.WithContext(ctx).
		// Image bytes are only needed by the serve endpoint, listing
		// them in bulk would drag megabytes per row out of the store
		Omit("image_data").
		Where("user_id = ?", userID).
		// created_at only has second resolution, rowid is the actual
		// insertion order
		Order("rowid asc").
		Find(&entries).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	return entries, nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(err.Error(), "database is locked"):
		return ErrUnavailable
	default:
		return err
	}
}
