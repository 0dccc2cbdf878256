package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"provision-store/internal/models"
)

const (
	BillsCollection    = "bills"
	CountersCollection = "counters"

	// BillCounterID is the counters document holding the last issued bill sequence.
	BillCounterID = "billNumber"
)

type BillStore struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewBillStore(db *mongo.Database) *BillStore {
	return &BillStore{
		coll:     db.Collection(BillsCollection),
		counters: db.Collection(CountersCollection),
	}
}

func (s *BillStore) List(ctx context.Context) ([]models.Bill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bills := make([]models.Bill, 0)
	if err := cursor.All(ctx, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (s *BillStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Bill, error) {
	var bill models.Bill
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&bill); err != nil {
		return models.Bill{}, translate(err)
	}
	return bill, nil
}

func (s *BillStore) Insert(ctx context.Context, bill *models.Bill) error {
	res, err := s.coll.InsertOne(ctx, bill)
	if err != nil {
		return translate(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		bill.ID = id
	}
	return nil
}

func (s *BillStore) Update(ctx context.Context, id primitive.ObjectID, patch models.BillPatch) (models.Bill, error) {
	var updated models.Bill
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": billPatchDocument(patch)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return models.Bill{}, translate(err)
	}
	return updated, nil
}

func (s *BillStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BillStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *BillStore) SumTotalAmount(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// NextSequence atomically increments and returns the bill counter.
func (s *BillStore) NextSequence(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": BillCounterID},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func billPatchDocument(patch models.BillPatch) bson.M {
	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.CustomerName != nil {
		set["customerName"] = *patch.CustomerName
	}
	if patch.CustomerPhone != nil {
		set["customerPhone"] = *patch.CustomerPhone
	}
	if patch.Items != nil {
		set["items"] = patch.Items
	}
	if patch.TotalAmount != nil {
		set["totalAmount"] = *patch.TotalAmount
	}
	if patch.PaymentStatus != nil {
		set["paymentStatus"] = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		set["paymentMethod"] = *patch.PaymentMethod
	}
	return set
}
