package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/pkg/common"
)

// checkSuper ensures a usable administrator seller account exists.
func (a *Application) checkSuper() {
	const superEmail = "admin@salesdesk.local"
	const defaultPassword = "salesdesk"

	var seller domain.Seller
	err := a.gormDB.Where("email = ?", superEmail).First(&seller).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(hashErr))
			return
		}
		if err := a.gormDB.Create(&domain.Seller{
			ID:        common.UUIDint64(),
			FirstName: "admin",
			LastName:  "salesdesk",
			Email:     superEmail,
			Password:  string(hash),
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin seller", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin seller", zap.String("email", superEmail))
		}
	case err != nil:
		zap.L().Error("failed to query admin seller", zap.Error(err))
	}
}

type settingSchema struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var defaultSettings = []settingSchema{
	{"inventory", "low_stock_threshold", "5", "Stock level that triggers the low-stock warning job"},
	{"reports", "top_clients_limit", "10", "Default size of the top clients ranking"},
	{"reports", "top_sellers_limit", "3", "Default size of the top sellers ranking"},
}

// checkSettings initializes missing runtime settings with defaults.
func (a *Application) checkSettings() {
	for sortid, schema := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", schema.Category, schema.Name).
			Count(&count)
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   schema.Category,
				Name:   schema.Name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized setting",
				zap.String("key", schema.Category+"."+schema.Name),
				zap.String("default", schema.Default))
		}
	}
}

// checkProducts seeds a few demo catalog items on an empty catalog.
func (a *Application) checkProducts() {
	defaultProducts := []domain.Product{
		{Name: "demo-widget-basic", Price: 9.99, Stock: 100},
		{Name: "demo-widget-pro", Price: 24.5, Stock: 50},
		{Name: "demo-addon-support", Price: 49.95, Stock: 200},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("name = ?", p.Name).Count(&count)
		if count == 0 {
			p.ID = common.UUIDint64()
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("name", p.Name))
			}
		}
	}
}
