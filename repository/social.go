package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"deepshop/database"
	"deepshop/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoSocialStore struct {
	chats    *mongo.Collection
	messages *mongo.Collection
	stories  *mongo.Collection
	notes    *mongo.Collection
}

func NewSocialStore(db *mongo.Database) *MongoSocialStore {
	return &MongoSocialStore{
		chats:    db.Collection(database.CollChats),
		messages: db.Collection(database.CollMessages),
		stories:  db.Collection(database.CollStories),
		notes:    db.Collection(database.CollNotes),
	}
}

// UpsertChat finds or creates the chat between a fixed participant pair.
// Participants are sorted so the pair maps to one document regardless of
// who opens the chat.
func (s *MongoSocialStore) UpsertChat(ctx context.Context, participants []string) (*models.Chat, error) {
	sorted := append([]string(nil), participants...)
	sort.Strings(sorted)

	var chat models.Chat
	err := s.chats.FindOneAndUpdate(
		ctx,
		bson.M{"participants": sorted},
		bson.M{
			"$set":         bson.M{"updatedAt": time.Now().UTC()},
			"$setOnInsert": bson.M{"participants": sorted},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&chat)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert chat: %w", err)
	}
	return &chat, nil
}

func (s *MongoSocialStore) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	cursor, err := s.chats.Find(
		ctx,
		bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chats: %w", err)
	}
	return chats, nil
}

func (s *MongoSocialStore) AppendMessage(ctx context.Context, msg *models.Message) (string, error) {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to insert message: %w", err)
	}

	if oid, err := primitive.ObjectIDFromHex(msg.ChatID); err == nil {
		_, err = s.chats.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
			"lastMessage": msg.Text,
			"updatedAt":   msg.Timestamp,
		}})
		if err != nil {
			return "", fmt.Errorf("failed to touch chat: %w", err)
		}
	}
	return msg.ID.Hex(), nil
}

func (s *MongoSocialStore) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	cursor, err := s.messages.Find(
		ctx,
		bson.M{"chatId": chatID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (s *MongoSocialStore) InsertStory(ctx context.Context, story *models.Story) (string, error) {
	if story.ID.IsZero() {
		story.ID = primitive.NewObjectID()
	}
	if _, err := s.stories.InsertOne(ctx, story); err != nil {
		return "", fmt.Errorf("failed to insert story: %w", err)
	}
	return story.ID.Hex(), nil
}

func (s *MongoSocialStore) ListStories(ctx context.Context) ([]models.Story, error) {
	cursor, err := s.stories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, fmt.Errorf("failed to decode stories: %w", err)
	}
	return stories, nil
}

func (s *MongoSocialStore) ReactStory(ctx context.Context, id, emoji string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.stories.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"reactions." + emoji: 1}})
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && res.MatchedCount == 0) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to react to story: %w", err)
	}
	return nil
}

func (s *MongoSocialStore) InsertNote(ctx context.Context, note *models.Note) (string, error) {
	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	if _, err := s.notes.InsertOne(ctx, note); err != nil {
		return "", fmt.Errorf("failed to insert note: %w", err)
	}
	return note.ID.Hex(), nil
}

func (s *MongoSocialStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	cursor, err := s.notes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []models.Note
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}
