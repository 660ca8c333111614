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

type MongoProductStore struct {
	coll *mongo.Collection
}

func NewProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{coll: db.Collection(database.CollProducts)}
}

func (s *MongoProductStore) Insert(ctx context.Context, product *models.Product) (string, error) {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		return "", fmt.Errorf("failed to insert product: %w", err)
	}
	return product.ID.Hex(), nil
}

func (s *MongoProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var product models.Product
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

func (s *MongoProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.SellerID != "" {
		query["sellerId"] = filter.SellerID
	}
	if filter.Promoted {
		query["isPromoted"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func productUpdateSet(req models.UpdateProductRequest) bson.M {
	set := bson.M{}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Price > 0 {
		set["price"] = req.Price
	}
	if req.OldPrice > 0 {
		set["oldPrice"] = req.OldPrice
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Image != "" {
		set["image"] = req.Image
	}
	if req.Stock != "" {
		set["stock"] = req.Stock
	}
	if req.IsPromoted != nil {
		set["isPromoted"] = *req.IsPromoted
	}
	return set
}

func (s *MongoProductStore) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	// An empty $set is a server error in MongoDB; a body with no
	// recognized fields is a no-op instead.
	set := productUpdateSet(req)
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	var product models.Product
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

func (s *MongoProductStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProductStore) IncrementViews(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}
