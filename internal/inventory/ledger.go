// Package inventory validates and applies stock deltas for order line
// items. Callers run ledger operations inside a store.WithTx unit of
// work, so a rejected line rolls back every decrement applied before it.
package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/vendora/salesdesk/internal/domain"
)

// LineItem is a (product, quantity) pair to reserve or release.
type LineItem struct {
	ProductID int64
	Quantity  int
}

type Ledger struct {
	products ProductStore
}

func NewLedger(products ProductStore) *Ledger {
	return &Ledger{products: products}
}

// Reserve decrements stock for every line item. Each decrement is a
// conditional update (stock >= qty), so two concurrent reservations of
// the same product can never drive stock negative. Any failure aborts
// the surrounding transaction, leaving all products untouched.
func (l *Ledger) Reserve(ctx context.Context, items []LineItem) error {
	deltas, err := mergeQuantities(items)
	if err != nil {
		return err
	}
	for _, d := range deltas {
		if err := l.decrement(ctx, d.ProductID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Release credits previously reserved quantities back to stock, used
// when an order is deleted or its line items shrink.
func (l *Ledger) Release(ctx context.Context, items []LineItem) error {
	deltas, err := mergeQuantities(items)
	if err != nil {
		return err
	}
	for _, d := range deltas {
		if err := l.products.IncrementStock(ctx, d.ProductID, d.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Adjust applies the signed delta between an order's previous and new
// line items: decreases are credited back before increases are
// reserved, so revising a quantity downward always succeeds and never
// re-charges stock from scratch.
func (l *Ledger) Adjust(ctx context.Context, previous, revised []LineItem) error {
	oldQty, err := mergeQuantities(previous)
	if err != nil {
		return err
	}
	newQty, err := mergeQuantities(revised)
	if err != nil {
		return err
	}

	byProduct := map[int64]int{}
	for _, d := range oldQty {
		byProduct[d.ProductID] -= d.Quantity
	}
	for _, d := range newQty {
		byProduct[d.ProductID] += d.Quantity
	}

	ids := make([]int64, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Credits first, then debits, each pass in id order: concurrent
	// adjustments touch products in the same sequence and cannot
	// deadlock, and freed stock is visible before new demand is applied.
	for _, id := range ids {
		if delta := byProduct[id]; delta < 0 {
			if err := l.products.IncrementStock(ctx, id, -delta); err != nil {
				return err
			}
		}
	}
	for _, id := range ids {
		if delta := byProduct[id]; delta > 0 {
			if err := l.decrement(ctx, id, delta); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Ledger) decrement(ctx context.Context, productID int64, qty int) error {
	applied, err := l.products.DecrementStock(ctx, productID, qty)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	// The guard did not match: either the product is gone or the stock
	// is short. Re-read to tell the two apart.
	p, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   qty,
		Available:   p.Stock,
	}
}

// mergeQuantities collapses repeated products into one delta per id and
// rejects non-positive quantities. Ids come back sorted so every
// multi-line reservation locks rows in the same order.
func mergeQuantities(items []LineItem) ([]LineItem, error) {
	merged := map[int64]int{}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		merged[it.ProductID] += it.Quantity
	}
	out := make([]LineItem, 0, len(merged))
	for id, qty := range merged {
		out = append(out, LineItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

// IsInsufficientStock reports whether err is a stock rejection.
func IsInsufficientStock(err error) bool {
	var target *domain.InsufficientStockError
	return errors.As(err, &target)
}
