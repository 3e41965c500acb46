package domain

import "time"

// AuditLog records who performed which mutation, for operational review.
type AuditLog struct {
	ID         int64     `json:"id,string"`
	SellerName string    `json:"seller_name"`
	OprIP      string    `json:"opr_ip"`
	Action     string    `json:"action"`
	Desc       string    `json:"desc"`
	OptTime    time.Time `json:"opt_time"`
}

// TableName Specify table name
func (AuditLog) TableName() string {
	return "audit_log"
}
