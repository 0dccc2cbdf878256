package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"provision-store/internal/middleware"
	"provision-store/internal/models"
)

type Deps struct {
	Products ProductService
	Bills    BillService
	Stats    StatsService

	// Mongo backs /healthz; the route is skipped when nil.
	Mongo *mongo.Client

	// JWTSecret empty leaves every route open.
	JWTSecret string
	Admin     models.Admin
	AccessTTL time.Duration
}

// RegisterRoutes mounts the REST API under /api. Reads are public; writes go
// through AdminAuth.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	if deps.Mongo != nil {
		r.GET("/healthz", Health(deps.Mongo))
	}

	api := r.Group("/api")
	if deps.JWTSecret != "" {
		api.POST("/auth/login", AdminLogin(deps.Admin, deps.JWTSecret, deps.AccessTTL))
	}

	admin := middleware.AdminAuth(deps.JWTSecret)

	api.GET("/products", ListProducts(deps.Products))
	api.GET("/products/:id", GetProduct(deps.Products))
	api.POST("/products", admin, CreateProduct(deps.Products))
	api.PUT("/products/:id", admin, UpdateProduct(deps.Products))
	api.DELETE("/products/:id", admin, DeleteProduct(deps.Products))

	api.GET("/bills", ListBills(deps.Bills))
	api.GET("/bills/:id", GetBill(deps.Bills))
	api.POST("/bills", admin, CreateBill(deps.Bills))
	api.PUT("/bills/:id", admin, UpdateBill(deps.Bills))
	api.DELETE("/bills/:id", admin, DeleteBill(deps.Bills))

	api.GET("/dashboard/stats", DashboardStats(deps.Stats))
	api.GET("/customers", ListCustomers(deps.Bills))
}
