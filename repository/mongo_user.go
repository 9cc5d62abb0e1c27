package repository

import (
	"context"

	"civicreport/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	DB *mongo.Database
}

func (r *MongoUserRepository) col() *mongo.Collection {
	return r.DB.Collection(usersCollection)
}

func (r *MongoUserRepository) CreateIfMissing(ctx context.Context, user *model.User) (bool, error) {
	if user.ID == "" {
		user.ID = newObjectID()
	}
	res, err := r.col().UpdateOne(ctx,
		bson.M{"email": user.Email},
		bson.M{"$setOnInsert": user},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.col().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, email, displayName, photoURL string) (*model.User, error) {
	var user model.User
	err := r.col().FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"displayName": displayName, "photoURL": photoURL}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) SetRole(ctx context.Context, id string, role model.Role) error {
	res, err := r.col().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) SetRoleByEmail(ctx context.Context, email string, role model.Role, onlyFrom ...model.Role) (bool, error) {
	roleCond := bson.M{"$ne": role}
	if len(onlyFrom) > 0 {
		roleCond["$in"] = onlyFrom
	}
	res, err := r.col().UpdateOne(ctx,
		bson.M{"email": email, "role": roleCond},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}
	n, err := r.col().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *MongoUserRepository) Search(ctx context.Context, term string, limit int) ([]model.User, error) {
	query := bson.M{}
	if term != "" {
		re := containsRegex(term)
		query["$or"] = bson.A{bson.M{"displayName": re}, bson.M{"email": re}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.col().Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
