package repository

import (
	"context"
	"errors"
	"fmt"

	"deepshop/database"
	"deepshop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// siteConfigID is the fixed _id of the single global config document.
const siteConfigID = "global"

type MongoConfigStore struct {
	coll *mongo.Collection
}

func NewConfigStore(db *mongo.Database) *MongoConfigStore {
	return &MongoConfigStore{coll: db.Collection(database.CollSiteConfig)}
}

// Get returns the global config, or zero-value defaults when the document
// has never been written. A zero config disables advance and nid, which
// forces the checkout mode selector to cash-on-delivery.
func (s *MongoConfigStore) Get(ctx context.Context) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := s.coll.FindOne(ctx, bson.M{"_id": siteConfigID}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.SiteConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load site config: %w", err)
	}
	return &cfg, nil
}

func (s *MongoConfigStore) Update(ctx context.Context, cfg *models.SiteConfig) error {
	_, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"_id": siteConfigID},
		cfg,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update site config: %w", err)
	}
	return nil
}
