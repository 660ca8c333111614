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

type MongoNotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{coll: db.Collection(database.CollNotifications)}
}

func (s *MongoNotificationStore) Insert(ctx context.Context, n *models.Notification) (string, error) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}
	return n.ID.Hex(), nil
}

// ListForUser returns global notifications plus the ones targeted at the
// user, newest first. Global documents carry no userId field.
func (s *MongoNotificationStore) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	filter := bson.M{"$or": []bson.M{
		{"userId": bson.M{"$exists": false}},
		{"userId": userID},
	}}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips isRead on a notification targeted at the user. Global
// notifications have no per-user read state and come back ErrNotFound.
func (s *MongoNotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": oid, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
