package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"provision-store/internal/store"
)

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(store.ProductsCollection).Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "units", Value: 1}},
			Options: options.Index().SetName("units_asc"),
		},
	}

	slog.Debug("EnsureProductIndexes: creating indexes", "count", len(models))
	if _, err := indexes.CreateMany(ctx, models); err != nil {
		slog.Error("EnsureProductIndexes: index error", "error", err)
		return err
	}
	return nil
}

func EnsureBillIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(store.BillsCollection).Indexes()

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "billNumber", Value: 1}},
			Options: options.Index().
				SetName("billNumber_unique").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "customerName", Value: 1}, {Key: "customerPhone", Value: 1}},
			Options: options.Index().SetName("customer_index"),
		},
	}

	slog.Debug("EnsureBillIndexes: creating indexes", "count", len(models))
	if _, err := indexes.CreateMany(ctx, models); err != nil {
		slog.Error("EnsureBillIndexes: index error", "error", err)
		return err
	}
	return nil
}

// EnsureBillCounter raises the bill counter to at least the number of stored
// bills, so a database that predates the counter keeps numbering from where
// it left off.
func EnsureBillCounter(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := db.Collection(store.BillsCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}

	_, err = db.Collection(store.CountersCollection).UpdateOne(
		ctx,
		bson.M{"_id": store.BillCounterID},
		bson.M{"$max": bson.M{"seq": count}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		slog.Error("EnsureBillCounter: seed error", "error", err)
		return err
	}
	slog.Debug("EnsureBillCounter: counter seeded", "bills", count)
	return nil
}
