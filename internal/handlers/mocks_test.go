package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"provision-store/internal/models"
	"provision-store/internal/services"
)

type mockProducts struct{ mock.Mock }

func (m *mockProducts) List(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProducts) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockProducts) Create(ctx context.Context, input services.ProductInput) (models.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockProducts) Update(ctx context.Context, id primitive.ObjectID, input services.ProductInput) (models.Product, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *mockProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockBills struct{ mock.Mock }

func (m *mockBills) List(ctx context.Context) ([]models.Bill, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Bill), args.Error(1)
}

func (m *mockBills) Get(ctx context.Context, id primitive.ObjectID) (models.Bill, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Bill), args.Error(1)
}

func (m *mockBills) Create(ctx context.Context, input services.BillInput) (models.Bill, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Bill), args.Error(1)
}

func (m *mockBills) Update(ctx context.Context, id primitive.ObjectID, input services.BillInput) (models.Bill, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(models.Bill), args.Error(1)
}

func (m *mockBills) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) Stats(ctx context.Context) (models.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DashboardStats), args.Error(1)
}
