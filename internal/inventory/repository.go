package inventory

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/store"
)

// ProductStore is the catalog access the ledger needs.
type ProductStore interface {
	// GetByID retrieves a product; domain.ErrNotFound when absent.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// DecrementStock applies a single conditional decrement:
	// stock = stock - qty only if stock >= qty. Returns false when the
	// guard did not match (insufficient stock or missing product).
	DecrementStock(ctx context.Context, id int64, qty int) (bool, error)

	// IncrementStock credits qty back to the product's stock.
	IncrementStock(ctx context.Context, id int64, qty int) error
}

// GormProductStore is the GORM implementation of ProductStore.
type GormProductStore struct {
	db *gorm.DB
}

func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

func (s *GormProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := store.DB(ctx, s.db).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get product")
	}
	return &p, nil
}

func (s *GormProductStore) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res := store.DB(ctx, s.db).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "decrement stock")
	}
	return res.RowsAffected == 1, nil
}

func (s *GormProductStore) IncrementStock(ctx context.Context, id int64, qty int) error {
	res := store.DB(ctx, s.db).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "increment stock")
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
