// Package services holds the product, bill and dashboard operations. Stores
// are injected as interfaces so the Mongo implementations in internal/store
// can be swapped for fakes in tests.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"provision-store/internal/models"
	"provision-store/internal/store"
)

var (
	ErrNotFound  = store.ErrNotFound
	ErrDuplicate = store.ErrDuplicate
)

// ValidationError is returned for missing or invalid input fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AdjustUnits(ctx context.Context, id primitive.ObjectID, delta int) error
	Count(ctx context.Context) (int64, error)
	CountBelow(ctx context.Context, threshold int) (int64, error)
}

type BillStore interface {
	List(ctx context.Context) ([]models.Bill, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Bill, error)
	Insert(ctx context.Context, bill *models.Bill) error
	Update(ctx context.Context, id primitive.ObjectID, patch models.BillPatch) (models.Bill, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	SumTotalAmount(ctx context.Context) (float64, error)
	NextSequence(ctx context.Context) (int64, error)
}

// TxRunner groups store calls into one unit of work. Atomic reports whether
// a failure inside fn rolls back the calls already made.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}

type StatsCache interface {
	Get(ctx context.Context) (models.DashboardStats, bool)
	Set(ctx context.Context, stats models.DashboardStats)
	Invalidate(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Get(context.Context) (models.DashboardStats, bool) { return models.DashboardStats{}, false }
func (noopCache) Set(context.Context, models.DashboardStats) {}
func (noopCache) Invalidate(context.Context) {}

func cacheOrNoop(c StatsCache) StatsCache {
	if c == nil {
		return noopCache{}
	}
	return c
}
