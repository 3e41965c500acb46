package domain

import "time"

// Product is a shared catalog item; there is no per-product ownership.
// Stock never goes below zero after a committed operation.
type Product struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Price     float64   `json:"price" form:"price"`
	Stock     int       `json:"stock" form:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
