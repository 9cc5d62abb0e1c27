package repository

import (
	"context"

	"civicreport/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStaffRepository struct {
	DB *mongo.Database
}

func (r *MongoStaffRepository) col() *mongo.Collection {
	return r.DB.Collection(staffCollection)
}

func (r *MongoStaffRepository) Create(ctx context.Context, staff *model.Staff) error {
	if staff.ID == "" {
		staff.ID = newObjectID()
	}
	_, err := r.col().InsertOne(ctx, staff)
	return err
}

func (r *MongoStaffRepository) Get(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&staff); err != nil {
		return nil, mongoErr(err)
	}
	return &staff, nil
}

func (r *MongoStaffRepository) List(ctx context.Context, f StaffFilter) ([]model.Staff, error) {
	query := bson.M{}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.WorkStatus != "" {
		query["workStatus"] = f.WorkStatus
	}
	if f.Email != "" {
		query["email"] = f.Email
	}
	cursor, err := r.col().Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	staff := []model.Staff{}
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *MongoStaffRepository) UpdateDecision(ctx context.Context, id string, status model.StaffStatus, workStatus model.WorkStatus) error {
	set := bson.M{"status": status}
	if workStatus != "" {
		set["workStatus"] = workStatus
	}
	return r.update(ctx, id, set)
}

func (r *MongoStaffRepository) SetWorkStatus(ctx context.Context, id string, workStatus model.WorkStatus) error {
	return r.update(ctx, id, bson.M{"workStatus": workStatus})
}

func (r *MongoStaffRepository) update(ctx context.Context, id string, set bson.M) error {
	res, err := r.col().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoStaffRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
