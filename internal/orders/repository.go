package orders

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/store"
)

// OrderRepository handles order persistence. All mutating calls are
// expected to run inside WithTx so an order and its stock movements
// commit together.
type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id int64) error
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error)
	ListByStatus(ctx context.Context, sellerID int64, status domain.OrderStatus) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

// ClientDirectory is the client lookup the order lifecycle needs.
type ClientDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
}

// GormOrderRepository is the GORM implementation of OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return store.WithTx(ctx, r.db, fn)
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := store.DB(ctx, r.db).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get order")
	}
	return &order, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := store.DB(ctx, r.db).Create(order).Error; err != nil {
		return pkgerrors.Wrap(err, "create order")
	}
	return nil
}

// Update replaces the order row and its line items wholesale; the
// service has already applied the matching stock delta.
func (r *GormOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	db := store.DB(ctx, r.db)
	if err := db.Where("order_id = ?", order.ID).Delete(&domain.OrderItem{}).Error; err != nil {
		return pkgerrors.Wrap(err, "replace order items")
	}
	if len(order.Items) > 0 {
		if err := db.Create(&order.Items).Error; err != nil {
			return pkgerrors.Wrap(err, "replace order items")
		}
	}
	updates := map[string]interface{}{
		"client_id":  order.ClientID,
		"total":      order.Total,
		"status":     order.Status,
		"updated_at": time.Now(),
	}
	if err := db.Model(&domain.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return pkgerrors.Wrap(err, "update order")
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	db := store.DB(ctx, r.db)
	if err := db.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return pkgerrors.Wrap(err, "delete order items")
	}
	if err := db.Where("id = ?", id).Delete(&domain.Order{}).Error; err != nil {
		return pkgerrors.Wrap(err, "delete order")
	}
	return nil
}

func (r *GormOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	var rows []domain.Order
	err := store.DB(ctx, r.db).Preload("Items").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list orders by seller")
	}
	return rows, nil
}

func (r *GormOrderRepository) ListByStatus(ctx context.Context, sellerID int64, status domain.OrderStatus) ([]domain.Order, error) {
	var rows []domain.Order
	err := store.DB(ctx, r.db).Preload("Items").
		Where("seller_id = ? AND status = ?", sellerID, status).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list orders by status")
	}
	return rows, nil
}

func (r *GormOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	var rows []domain.Order
	err := store.DB(ctx, r.db).Preload("Items").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list orders")
	}
	return rows, nil
}
