package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"provision-store/internal/logging"
	"provision-store/internal/models"
)

// ProductInput is the JSON body of product create and update requests.
// Pointer fields distinguish "absent" from zero values.
type ProductInput struct {
	Name        *string           `json:"name,omitempty"`
	Units       *models.FlexInt   `json:"units,omitempty"`
	Weight      *models.FlexFloat `json:"weight,omitempty"`
	WeightUnit  *string           `json:"weightUnit,omitempty"`
	Price       *models.FlexFloat `json:"price,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Description *string           `json:"description,omitempty"`
}

type ProductService struct {
	products ProductStore
	cache    StatsCache
	now      func() time.Time
}

func NewProductService(products ProductStore, cache StatsCache) *ProductService {
	return &ProductService{
		products: products,
		cache:    cacheOrNoop(cache),
		now:      time.Now,
	}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (models.Product, error) {
	if input.Name == nil {
		return models.Product{}, invalid("name", "name required")
	}
	if input.Units == nil {
		return models.Product{}, invalid("units", "units required")
	}
	if input.Weight == nil {
		return models.Product{}, invalid("weight", "weight required")
	}
	if input.Price == nil {
		return models.Product{}, invalid("price", "price required")
	}
	if input.Category == nil {
		return models.Product{}, invalid("category", "category required")
	}

	weightUnit := models.WeightUnitKg
	if input.WeightUnit != nil && strings.TrimSpace(*input.WeightUnit) != "" {
		weightUnit = strings.TrimSpace(*input.WeightUnit)
	}

	now := s.now()
	product := models.Product{
		Name:       strings.TrimSpace(*input.Name),
		Units:      int(*input.Units),
		Weight:     float64(*input.Weight),
		WeightUnit: weightUnit,
		Price:      float64(*input.Price),
		Category:   strings.TrimSpace(*input.Category),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}

	if err := validateProduct(product); err != nil {
		return models.Product{}, err
	}

	if err := s.products.Insert(ctx, &product); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}

	logging.WithCtx(ctx).Info("product created", "product_id", product.ID.Hex(), "name", product.Name)
	s.cache.Invalidate(ctx)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, input ProductInput) (models.Product, error) {
	patch, err := productPatch(input)
	if err != nil {
		return models.Product{}, err
	}
	patch.UpdatedAt = s.now()

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return models.Product{}, err
	}

	s.cache.Invalidate(ctx)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	logging.WithCtx(ctx).Info("product deleted", "product_id", id.Hex())
	s.cache.Invalidate(ctx)
	return nil
}

func validateProduct(p models.Product) error {
	if p.Name == "" {
		return invalid("name", "name required")
	}
	if p.Units < 0 {
		return invalid("units", "units must be zero or greater")
	}
	if !models.IsFinite(p.Weight) || p.Weight < 0 {
		return invalid("weight", "weight must be zero or greater")
	}
	if !models.IsWeightUnit(p.WeightUnit) {
		return invalid("weightUnit", "weightUnit must be kg or gram")
	}
	if !models.IsFinite(p.Price) || p.Price < 0 {
		return invalid("price", "price must be zero or greater")
	}
	if p.Category == "" {
		return invalid("category", "category required")
	}
	if !models.IsProductCategory(p.Category) {
		return invalid("category", "unknown category: %s", p.Category)
	}
	return nil
}

func productPatch(input ProductInput) (models.ProductPatch, error) {
	var patch models.ProductPatch
	fields := 0

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return patch, invalid("name", "name cannot be empty")
		}
		patch.Name = &name
		fields++
	}
	if input.Units != nil {
		units := int(*input.Units)
		if units < 0 {
			return patch, invalid("units", "units must be zero or greater")
		}
		patch.Units = &units
		fields++
	}
	if input.Weight != nil {
		weight := float64(*input.Weight)
		if !models.IsFinite(weight) || weight < 0 {
			return patch, invalid("weight", "weight must be zero or greater")
		}
		patch.Weight = &weight
		fields++
	}
	if input.WeightUnit != nil {
		unit := strings.TrimSpace(*input.WeightUnit)
		if !models.IsWeightUnit(unit) {
			return patch, invalid("weightUnit", "weightUnit must be kg or gram")
		}
		patch.WeightUnit = &unit
		fields++
	}
	if input.Price != nil {
		price := float64(*input.Price)
		if !models.IsFinite(price) || price < 0 {
			return patch, invalid("price", "price must be zero or greater")
		}
		patch.Price = &price
		fields++
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if !models.IsProductCategory(category) {
			return patch, invalid("category", "unknown category: %s", category)
		}
		patch.Category = &category
		fields++
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		patch.Description = &description
		fields++
	}

	if fields == 0 {
		return patch, invalid("", "no fields to update")
	}
	return patch, nil
}
