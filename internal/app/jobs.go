package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vendora/salesdesk/internal/domain"
)

// initJob registers the background jobs: an hourly low-stock scan and a
// daily completed-sales summary.
func (a *Application) initJob() {
	a.sched = cron.New()

	if _, err := a.sched.AddFunc("@hourly", a.runLowStockScan); err != nil {
		zap.L().Error("failed to register low stock job", zap.Error(err))
	}
	if _, err := a.sched.AddFunc("@daily", a.runSalesSummary); err != nil {
		zap.L().Error("failed to register sales summary job", zap.Error(err))
	}
}

// runLowStockScan warns about catalog items at or below the configured
// threshold so sellers can restock before reservations start failing.
func (a *Application) runLowStockScan() {
	threshold := a.configManager.GetInt64("inventory", "low_stock_threshold")
	if threshold <= 0 {
		threshold = 5
	}

	var products []domain.Product
	if err := a.gormDB.Where("stock <= ?", threshold).Order("stock ASC").Find(&products).Error; err != nil {
		zap.L().Error("low stock scan failed", zap.Error(err))
		return
	}
	for _, p := range products {
		zap.L().Warn("low stock",
			zap.Int64("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("stock", p.Stock))
	}
	zap.L().Info("low stock scan finished",
		zap.Int64("threshold", threshold),
		zap.Int("flagged", len(products)))
}

// runSalesSummary logs yesterday's completed-order revenue.
func (a *Application) runSalesSummary() {
	since := time.Now().Add(-24 * time.Hour)

	var row struct {
		Orders  int64
		Revenue float64
	}
	err := a.gormDB.Model(&domain.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue").
		Where("status = ? AND updated_at >= ?", domain.OrderStatusCompleted, since).
		Scan(&row).Error
	if err != nil {
		zap.L().Error("sales summary failed", zap.Error(err))
		return
	}
	zap.L().Info("daily sales summary",
		zap.Int64("completed_orders", row.Orders),
		zap.Float64("revenue", row.Revenue))
}
