package models

import "time"

// ProductPatch carries the fields of a partial product update. Nil fields are
// left untouched.
type ProductPatch struct {
	Name        *string
	Units       *int
	Weight      *float64
	WeightUnit  *string
	Price       *float64
	Category    *string
	Description *string
	UpdatedAt   time.Time
}

// BillPatch carries the fields of a partial bill update. Items and
// TotalAmount are always set together.
type BillPatch struct {
	CustomerName  *string
	CustomerPhone *string
	Items         []BillItem
	TotalAmount   *float64
	PaymentStatus *string
	PaymentMethod *string
	UpdatedAt     time.Time
}
