package models

// DashboardStats is the aggregate served on the dashboard.
type DashboardStats struct {
	TotalProducts    int64   `json:"totalProducts"`
	TotalBills       int64   `json:"totalBills"`
	TotalRevenue     float64 `json:"totalRevenue"`
	LowStockProducts int64   `json:"lowStockProducts"`
}
