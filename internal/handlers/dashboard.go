package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"provision-store/internal/customers"
)

const (
	routeDashboard = "dashboard"
	routeCustomers = "customers"
)

func DashboardStats(svc StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeDashboard)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		stats, err := svc.Stats(ctx)
		if err != nil {
			respondWithServiceError(c, routeDashboard, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ListCustomers groups every bill by customer. Optional query params:
// search (name or phone substring) and status (paid, pending, partial, all).
func ListCustomers(svc BillService) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, routeCustomers)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		bills, err := svc.List(ctx)
		if err != nil {
			respondWithServiceError(c, routeCustomers, err)
			return
		}

		grouped := customers.Filter(customers.Group(bills), c.Query("search"), c.Query("status"))
		c.JSON(http.StatusOK, gin.H{
			"data":    grouped,
			"summary": customers.Summarize(grouped),
		})
	}
}
