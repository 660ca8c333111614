package repository

import (
	"context"
	"fmt"

	"deepshop/database"
	"deepshop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoContentStore struct {
	banners *mongo.Collection
	ads     *mongo.Collection
	reviews *mongo.Collection
}

func NewContentStore(db *mongo.Database) *MongoContentStore {
	return &MongoContentStore{
		banners: db.Collection(database.CollBanners),
		ads:     db.Collection(database.CollCustomAds),
		reviews: db.Collection(database.CollReviews),
	}
}

func (s *MongoContentStore) InsertBanner(ctx context.Context, b *models.HomeBanner) (string, error) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if _, err := s.banners.InsertOne(ctx, b); err != nil {
		return "", fmt.Errorf("failed to insert banner: %w", err)
	}
	return b.ID.Hex(), nil
}

func (s *MongoContentStore) ListBanners(ctx context.Context) ([]models.HomeBanner, error) {
	cursor, err := s.banners.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer cursor.Close(ctx)

	var banners []models.HomeBanner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, fmt.Errorf("failed to decode banners: %w", err)
	}
	return banners, nil
}

func (s *MongoContentStore) DeleteBanner(ctx context.Context, id string) error {
	return deleteByHex(ctx, s.banners, id, "banner")
}

func (s *MongoContentStore) InsertAd(ctx context.Context, ad *models.CustomAd) (string, error) {
	if ad.ID.IsZero() {
		ad.ID = primitive.NewObjectID()
	}
	if _, err := s.ads.InsertOne(ctx, ad); err != nil {
		return "", fmt.Errorf("failed to insert ad: %w", err)
	}
	return ad.ID.Hex(), nil
}

func (s *MongoContentStore) ListAds(ctx context.Context, placement models.AdPlacement) ([]models.CustomAd, error) {
	query := bson.M{}
	if placement != "" {
		query["placement"] = placement
	}

	cursor, err := s.ads.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}
	defer cursor.Close(ctx)

	var ads []models.CustomAd
	if err := cursor.All(ctx, &ads); err != nil {
		return nil, fmt.Errorf("failed to decode ads: %w", err)
	}
	return ads, nil
}

func (s *MongoContentStore) DeleteAd(ctx context.Context, id string) error {
	return deleteByHex(ctx, s.ads, id, "ad")
}

func (s *MongoContentStore) InsertReview(ctx context.Context, r *models.Review) (string, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.reviews.InsertOne(ctx, r); err != nil {
		return "", fmt.Errorf("failed to insert review: %w", err)
	}
	return r.ID.Hex(), nil
}

func (s *MongoContentStore) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	cursor, err := s.reviews.Find(
		ctx,
		bson.M{"productId": productID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func deleteByHex(ctx context.Context, coll *mongo.Collection, id, kind string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
