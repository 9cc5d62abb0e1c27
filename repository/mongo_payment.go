package repository

import (
	"context"

	"civicreport/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPaymentRepository struct {
	DB *mongo.Database
}

func (r *MongoPaymentRepository) col() *mongo.Collection {
	return r.DB.Collection(paymentsCollection)
}

// CreateIfAbsent upserts with $setOnInsert on transactionId. A racing upsert
// that loses on the unique index gets a duplicate key error, which means the
// row exists.
func (r *MongoPaymentRepository) CreateIfAbsent(ctx context.Context, payment *model.Payment) (*model.Payment, bool, error) {
	candidate := *payment
	if candidate.ID == "" {
		candidate.ID = newObjectID()
	}

	res, err := r.col().UpdateOne(ctx,
		bson.M{"transactionId": candidate.TransactionID},
		bson.M{"$setOnInsert": candidate},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, err
	}
	if err == nil && res.UpsertedCount == 1 {
		return &candidate, true, nil
	}

	var existing model.Payment
	if err := r.col().FindOne(ctx, bson.M{"transactionId": candidate.TransactionID}).Decode(&existing); err != nil {
		return nil, false, mongoErr(err)
	}
	return &existing, false, nil
}

func (r *MongoPaymentRepository) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	cursor, err := r.col().Find(ctx, bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	payments := []model.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
