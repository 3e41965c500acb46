package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&AuditLog{},
	// Sales
	&Seller{},
	&Client{},
	&Product{},
	&Order{},
	&OrderItem{},
}
