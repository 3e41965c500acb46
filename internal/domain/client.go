package domain

import "time"

// Client is a customer record owned by exactly one seller. SellerID is
// assigned at creation time and never reassigned.
type Client struct {
	ID        int64     `json:"id,string" form:"id"`
	FirstName string    `json:"first_name" form:"first_name"`
	LastName  string    `json:"last_name" form:"last_name"`
	Company   string    `json:"company" form:"company"`
	Email     string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Phone     string    `json:"phone" form:"phone"`
	Address   string    `json:"address" form:"address"`
	SellerID  int64     `gorm:"index" json:"seller_id,string" form:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Client) TableName() string {
	return "clients"
}

func (c Client) OwnerID() int64 {
	return c.SellerID
}
