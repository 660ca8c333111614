package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Social entities are create/read/react only; none of them carries
// lifecycle state beyond a timestamp.

type Chat struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Participants []string           `json:"participants" bson:"participants"`
	LastMessage  string             `json:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
	// Pinned is per-viewer state resolved from the pin store at read
	// time; it is never persisted on the chat document.
	Pinned bool `json:"pinned" bson:"-"`
}

type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChatID    string             `json:"chatId" bson:"chatId"`
	SenderID  string             `json:"senderId" bson:"senderId"`
	Text      string             `json:"text,omitempty" bson:"text,omitempty"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type Story struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	Image     string             `json:"image" bson:"image"`
	Caption   string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Reactions map[string]int     `json:"reactions,omitempty" bson:"reactions,omitempty"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type Note struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	Text      string             `json:"text" bson:"text"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}
