package reports

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/store"
)

// ClientSpend is a client joined with its completed-order spend.
type ClientSpend struct {
	Client domain.Client `json:"client"`
	Total  float64       `json:"total"`
}

// SellerSpend is a seller joined with its completed-order spend.
type SellerSpend struct {
	Seller domain.Seller `json:"seller"`
	Total  float64       `json:"total"`
}

// SpendStore sums completed-order totals per client and per seller.
// Rows come back unordered; the aggregator applies the deterministic
// ranking.
type SpendStore interface {
	CompletedSpendByClient(ctx context.Context) ([]ClientSpend, error)
	CompletedSpendBySeller(ctx context.Context) ([]SellerSpend, error)
}

// GormSpendStore is the GORM implementation of SpendStore.
type GormSpendStore struct {
	db *gorm.DB
}

func NewGormSpendStore(db *gorm.DB) *GormSpendStore {
	return &GormSpendStore{db: db}
}

type spendRow struct {
	ID    int64
	Total float64
}

func (s *GormSpendStore) CompletedSpendByClient(ctx context.Context) ([]ClientSpend, error) {
	var rows []spendRow
	err := store.DB(ctx, s.db).Model(&domain.Order{}).
		Select("client_id AS id, SUM(total) AS total").
		Where("status = ?", domain.OrderStatusCompleted).
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "sum spend by client")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var clients []domain.Client
	if err := store.DB(ctx, s.db).Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "join clients")
	}
	byID := make(map[int64]domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	out := make([]ClientSpend, 0, len(rows))
	for _, row := range rows {
		out = append(out, ClientSpend{Client: byID[row.ID], Total: row.Total})
	}
	return out, nil
}

func (s *GormSpendStore) CompletedSpendBySeller(ctx context.Context) ([]SellerSpend, error) {
	var rows []spendRow
	err := store.DB(ctx, s.db).Model(&domain.Order{}).
		Select("seller_id AS id, SUM(total) AS total").
		Where("status = ?", domain.OrderStatusCompleted).
		Group("seller_id").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "sum spend by seller")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var sellers []domain.Seller
	if err := store.DB(ctx, s.db).Where("id IN ?", ids).Find(&sellers).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "join sellers")
	}
	byID := make(map[int64]domain.Seller, len(sellers))
	for _, v := range sellers {
		byID[v.ID] = v
	}

	out := make([]SellerSpend, 0, len(rows))
	for _, row := range rows {
		out = append(out, SellerSpend{Seller: byID[row.ID], Total: row.Total})
	}
	return out, nil
}
