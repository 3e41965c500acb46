package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// ValidOrderStatus reports whether s is one of the three known states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Order is a set of line items purchased by a client. SellerID always
// equals the referenced client's SellerID; both are stored so ownership
// checks need no join.
type Order struct {
	ID        int64       `json:"id,string" form:"id"`
	SellerID  int64       `gorm:"index" json:"seller_id,string" form:"seller_id"`
	ClientID  int64       `gorm:"index" json:"client_id,string" form:"client_id"`
	Total     float64     `json:"total" form:"total"`
	Status    OrderStatus `gorm:"size:16;index" json:"status" form:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

func (o Order) OwnerID() int64 {
	return o.SellerID
}

// OrderItem is one (product, quantity) line within an order. UnitPrice
// captures the product price at order time; it is not recomputed when
// catalog prices change later.
type OrderItem struct {
	ID        int64   `json:"id,string" form:"id"`
	OrderID   int64   `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductID int64   `gorm:"index" json:"product_id,string" form:"product_id"`
	Quantity  int     `json:"quantity" form:"quantity"`
	UnitPrice float64 `json:"unit_price" form:"unit_price"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
