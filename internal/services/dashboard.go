package services

import (
	"context"
	"fmt"

	"provision-store/internal/metrics"
	"provision-store/internal/models"
)

const DefaultLowStockThreshold = 10

type DashboardService struct {
	products          ProductStore
	bills             BillStore
	cache             StatsCache
	lowStockThreshold int
}

func NewDashboardService(products ProductStore, bills BillStore, cache StatsCache, lowStockThreshold int) *DashboardService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &DashboardService{
		products:          products,
		bills:             bills,
		cache:             cacheOrNoop(cache),
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *DashboardService) LowStockThreshold() int {
	return s.lowStockThreshold
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	if stats, ok := s.cache.Get(ctx); ok {
		metrics.StatsCache.WithLabelValues("hit").Inc()
		return stats, nil
	}
	metrics.StatsCache.WithLabelValues("miss").Inc()

	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count products: %w", err)
	}
	totalBills, err := s.bills.Count(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count bills: %w", err)
	}
	revenue, err := s.bills.SumTotalAmount(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("sum revenue: %w", err)
	}
	lowStock, err := s.products.CountBelow(ctx, s.lowStockThreshold)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("count low stock: %w", err)
	}

	stats := models.DashboardStats{
		TotalProducts:    totalProducts,
		TotalBills:       totalBills,
		TotalRevenue:     roundMoney(revenue),
		LowStockProducts: lowStock,
	}
	s.cache.Set(ctx, stats)
	return stats, nil
}
