package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"provision-store/internal/models"
	"provision-store/internal/services"
)

const requestTimeout = 5 * time.Second

type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	Create(ctx context.Context, input services.ProductInput) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, input services.ProductInput) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BillService interface {
	List(ctx context.Context) ([]models.Bill, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Bill, error)
	Create(ctx context.Context, input services.BillInput) (models.Bill, error)
	Update(ctx context.Context, id primitive.ObjectID, input services.BillInput) (models.Bill, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type StatsService interface {
	Stats(ctx context.Context) (models.DashboardStats, error)
}
