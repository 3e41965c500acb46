package domain

import "time"

// Seller is an authenticated identity that owns clients and orders.
type Seller struct {
	ID        int64     `json:"id,string" form:"id"`
	FirstName string    `json:"first_name" form:"first_name"`
	LastName  string    `json:"last_name" form:"last_name"`
	Email     string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	Status    string    `json:"status" form:"status"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Seller) TableName() string {
	return "sellers"
}

// OwnerID satisfies ownership.Owned; a seller owns itself.
func (s Seller) OwnerID() int64 {
	return s.ID
}
