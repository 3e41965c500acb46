// Package orders orchestrates the order lifecycle: ownership checks,
// stock reservation through the inventory ledger, and persistence.
package orders

import (
	"context"
	"time"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/inventory"
	"github.com/vendora/salesdesk/internal/ownership"
	"github.com/vendora/salesdesk/pkg/common"
)

// StatusPolicy controls how order status transitions are handled.
// Strict turns on the guarded machine (PENDING -> COMPLETED | CANCELED,
// CANCELED terminal); otherwise any known status may be set on update.
type StatusPolicy struct {
	Strict  bool
	Default domain.OrderStatus
}

type Service struct {
	repo     OrderRepository
	clients  ClientDirectory
	products inventory.ProductStore
	ledger   *inventory.Ledger
	policy   StatusPolicy
}

func NewService(repo OrderRepository, clients ClientDirectory, products inventory.ProductStore, ledger *inventory.Ledger, policy StatusPolicy) *Service {
	if policy.Default == "" {
		policy.Default = domain.OrderStatusPending
	}
	return &Service{
		repo:     repo,
		clients:  clients,
		products: products,
		ledger:   ledger,
		policy:   policy,
	}
}

// ItemInput is one requested (product, quantity) pair.
type ItemInput struct {
	ProductID int64
	Quantity  int
}

type CreateInput struct {
	ClientID int64
	Items    []ItemInput
	// Status is optional; empty means the configured default (PENDING).
	Status domain.OrderStatus
}

type UpdateInput struct {
	ClientID *int64
	// Items nil leaves line items unchanged; non-nil replaces them and
	// applies the signed stock delta against the previous reservation.
	Items  []ItemInput
	Status *domain.OrderStatus
}

// Create places a new order for one of the seller's clients. The stock
// reservation and the order insert commit in a single transaction, so a
// rejected line item leaves every product untouched.
func (s *Service) Create(ctx context.Context, sellerID int64, in CreateInput) (*domain.Order, error) {
	client, err := s.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(sellerID, client); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidQuantity
	}

	status := in.Status
	if status == "" {
		status = s.policy.Default
	}
	if !domain.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	var order *domain.Order
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.Reserve(txCtx, toLineItems(in.Items)); err != nil {
			return err
		}
		o, err := s.buildOrder(txCtx, sellerID, client.ID, status, in.Items)
		if err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Update revises an order the seller owns. Moving it to another client
// requires owning that client too. Revised line items are settled as a
// delta: shrunk quantities are credited back before grown ones are
// reserved.
func (s *Service) Update(ctx context.Context, sellerID, orderID int64, in UpdateInput) (*domain.Order, error) {
	var updated *domain.Order
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := ownership.Authorize(sellerID, order); err != nil {
			return err
		}

		if in.ClientID != nil && *in.ClientID != order.ClientID {
			client, err := s.clients.GetByID(txCtx, *in.ClientID)
			if err != nil {
				return err
			}
			if err := ownership.Authorize(sellerID, client); err != nil {
				return err
			}
			order.ClientID = client.ID
		}

		if in.Status != nil {
			if !domain.ValidOrderStatus(*in.Status) {
				return domain.ErrInvalidStatus
			}
			if err := s.checkTransition(order.Status, *in.Status); err != nil {
				return err
			}
			order.Status = *in.Status
		}

		if in.Items != nil {
			if len(in.Items) == 0 {
				return domain.ErrInvalidQuantity
			}
			if err := s.ledger.Adjust(txCtx, itemsToLines(order.Items), toLineItems(in.Items)); err != nil {
				return err
			}
			items, total, err := s.priceItems(txCtx, order.ID, in.Items)
			if err != nil {
				return err
			}
			order.Items = items
			order.Total = total
		}

		order.UpdatedAt = time.Now()
		if err := s.repo.Update(txCtx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an order the seller owns and credits its reserved
// quantities back to stock in the same transaction.
func (s *Service) Delete(ctx context.Context, sellerID, orderID int64) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if err := ownership.Authorize(sellerID, order); err != nil {
			return err
		}
		if err := s.ledger.Release(txCtx, itemsToLines(order.Items)); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, orderID)
	})
}

// Get returns an order visible only to its owning seller.
func (s *Service) Get(ctx context.Context, sellerID, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := ownership.Authorize(sellerID, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *Service) ListByStatus(ctx context.Context, sellerID int64, status domain.OrderStatus) ([]domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.ListByStatus(ctx, sellerID, status)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) buildOrder(ctx context.Context, sellerID, clientID int64, status domain.OrderStatus, items []ItemInput) (*domain.Order, error) {
	now := time.Now()
	order := &domain.Order{
		ID:        common.UUIDint64(),
		SellerID:  sellerID,
		ClientID:  clientID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	priced, total, err := s.priceItems(ctx, order.ID, items)
	if err != nil {
		return nil, err
	}
	order.Items = priced
	order.Total = total
	return order, nil
}

// priceItems captures the catalog price of every line at order time;
// totals are never recomputed when catalog prices change later.
func (s *Service) priceItems(ctx context.Context, orderID int64, items []ItemInput) ([]domain.OrderItem, float64, error) {
	out := make([]domain.OrderItem, 0, len(items))
	var total float64
	for _, it := range items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, domain.OrderItem{
			ID:        common.UUIDint64(),
			OrderID:   orderID,
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
		total += float64(it.Quantity) * p.Price
	}
	return out, total, nil
}

func (s *Service) checkTransition(from, to domain.OrderStatus) error {
	if !s.policy.Strict || from == to {
		return nil
	}
	if from == domain.OrderStatusPending {
		return nil
	}
	return domain.ErrStatusTransition
}

func toLineItems(items []ItemInput) []inventory.LineItem {
	out := make([]inventory.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func itemsToLines(items []domain.OrderItem) []inventory.LineItem {
	out := make([]inventory.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, inventory.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
