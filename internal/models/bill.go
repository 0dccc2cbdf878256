package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
	PaymentMethodCredit = "credit"
)

// BillItem is a single product line on a bill. Product is never stored; it is
// filled in on reads from the products collection.
type BillItem struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	UnitPrice   float64            `bson:"unitPrice" json:"unitPrice"`
	TotalPrice  float64            `bson:"totalPrice" json:"totalPrice"`
	Product     *Product           `bson:"-" json:"product,omitempty"`
}

// Bill defines the persisted sales transaction document.
type Bill struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BillNumber    string             `bson:"billNumber" json:"billNumber"`
	CustomerName  string             `bson:"customerName" json:"customerName"`
	CustomerPhone string             `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Items         []BillItem         `bson:"items" json:"items"`
	TotalAmount   float64            `bson:"totalAmount" json:"totalAmount"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsPaymentStatus(value string) bool {
	switch value {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial:
		return true
	}
	return false
}

func IsPaymentMethod(value string) bool {
	switch value {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodCredit:
		return true
	}
	return false
}
