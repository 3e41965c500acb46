package orders

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/store"
)

// GormClientDirectory is the GORM implementation of ClientDirectory.
type GormClientDirectory struct {
	db *gorm.DB
}

func NewGormClientDirectory(db *gorm.DB) *GormClientDirectory {
	return &GormClientDirectory{db: db}
}

func (d *GormClientDirectory) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	err := store.DB(ctx, d.db).Where("id = ?", id).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get client")
	}
	return &client, nil
}
