package repository

import (
	"context"
	"errors"
	"fmt"

	"deepshop/database"
	"deepshop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSellerRequestStore struct {
	coll *mongo.Collection
}

func NewSellerRequestStore(db *mongo.Database) *MongoSellerRequestStore {
	return &MongoSellerRequestStore{coll: db.Collection(database.CollSellerRequests)}
}

func (s *MongoSellerRequestStore) Insert(ctx context.Context, req *models.SellerRequest) (string, error) {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, req); err != nil {
		return "", fmt.Errorf("failed to insert seller request: %w", err)
	}
	return req.ID.Hex(), nil
}

func (s *MongoSellerRequestStore) List(ctx context.Context) ([]models.SellerRequest, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list seller requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.SellerRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode seller requests: %w", err)
	}
	return requests, nil
}

func (s *MongoSellerRequestStore) SetStatus(ctx context.Context, id string, status models.SellerRequestStatus) (*models.SellerRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var req models.SellerRequest
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update seller request: %w", err)
	}
	return &req, nil
}
