package models

// Customer is derived from bills sharing the same name and phone. It is never
// persisted.
type Customer struct {
	Name         string  `json:"name"`
	Phone        string  `json:"phone,omitempty"`
	Bills        []Bill  `json:"bills"`
	PaidTotal    float64 `json:"paidTotal"`
	PendingTotal float64 `json:"pendingTotal"`
}

// CustomerSummary totals the paid and outstanding amounts across customers.
type CustomerSummary struct {
	Customers    int     `json:"customers"`
	PaidTotal    float64 `json:"paidTotal"`
	PendingTotal float64 `json:"pendingTotal"`
}
