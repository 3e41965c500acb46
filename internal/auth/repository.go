package auth

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/store"
)

// SellerStore handles seller account persistence.
type SellerStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Seller, error)
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	Create(ctx context.Context, seller *domain.Seller) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// GormSellerStore is the GORM implementation of SellerStore.
type GormSellerStore struct {
	db *gorm.DB
}

func NewGormSellerStore(db *gorm.DB) *GormSellerStore {
	return &GormSellerStore{db: db}
}

func (s *GormSellerStore) GetByID(ctx context.Context, id int64) (*domain.Seller, error) {
	var seller domain.Seller
	err := store.DB(ctx, s.db).Where("id = ?", id).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get seller")
	}
	return &seller, nil
}

func (s *GormSellerStore) GetByEmail(ctx context.Context, email string) (*domain.Seller, error) {
	var seller domain.Seller
	err := store.DB(ctx, s.db).Where("email = ?", email).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get seller by email")
	}
	return &seller, nil
}

func (s *GormSellerStore) Create(ctx context.Context, seller *domain.Seller) error {
	if err := store.DB(ctx, s.db).Create(seller).Error; err != nil {
		return pkgerrors.Wrap(err, "create seller")
	}
	return nil
}

func (s *GormSellerStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return store.DB(ctx, s.db).Model(&domain.Seller{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}
