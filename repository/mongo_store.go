package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStore ensures the unique indexes the conditional inserts depend on
// and returns repositories backed by db.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*Store, error) {
	unique := []struct {
		collection string
		field      string
	}{
		{paymentsCollection, "transactionId"},
		{usersCollection, "email"},
	}
	for _, u := range unique {
		_, err := db.Collection(u.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: u.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return nil, fmt.Errorf("create unique index %s.%s: %w", u.collection, u.field, err)
		}
	}

	return &Store{
		Reports:  &MongoReportRepository{DB: db},
		Staff:    &MongoStaffRepository{DB: db},
		Payments: &MongoPaymentRepository{DB: db},
		Users:    &MongoUserRepository{DB: db},
		close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}, nil
}

func mongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func newObjectID() string {
	return primitive.NewObjectID().Hex()
}

func containsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
