// Package reports computes ranked spend summaries over completed
// orders. Rankings are global by design; there is no per-seller
// scoping.
package reports

import (
	"context"
	"sort"
)

const (
	DefaultTopClients = 10
	DefaultTopSellers = 3
)

type Service struct {
	spend SpendStore
}

func NewService(spend SpendStore) *Service {
	return &Service{spend: spend}
}

// TopClients ranks clients by completed-order spend, descending.
// Equal totals are ordered by client id ascending so the ranking is
// stable across runs.
func (s *Service) TopClients(ctx context.Context, limit int) ([]ClientSpend, error) {
	if limit <= 0 {
		limit = DefaultTopClients
	}
	rows, err := s.spend.CompletedSpendByClient(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Client.ID < rows[j].Client.ID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// TopSellers ranks sellers by completed-order spend, descending, with
// the same id tie-break as TopClients.
func (s *Service) TopSellers(ctx context.Context, limit int) ([]SellerSpend, error) {
	if limit <= 0 {
		limit = DefaultTopSellers
	}
	rows, err := s.spend.CompletedSpendBySeller(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Seller.ID < rows[j].Seller.ID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
