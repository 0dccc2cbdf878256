package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	WeightUnitKg   = "kg"
	WeightUnitGram = "gram"
)

// ProductCategories lists the shelf categories a product can be filed under.
var ProductCategories = []string{
	"Spices & Masalas",
	"Rice, Dal & Grains",
	"Bakery & Dairy",
	"Snacks & Biscuits",
	"Packaged Foods",
	"Edible Oils & Ghee",
	"Chocolates",
	"Beverages",
	"Personal Care",
	"Household Items",
	"Baby Products",
	"Miscellaneous Items",
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Units       int                `bson:"units" json:"units"`
	Weight      float64            `bson:"weight" json:"weight"`
	WeightUnit  string             `bson:"weightUnit" json:"weightUnit"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsProductCategory(value string) bool {
	for _, category := range ProductCategories {
		if category == value {
			return true
		}
	}
	return false
}

func IsWeightUnit(value string) bool {
	return value == WeightUnitKg || value == WeightUnitGram
}
