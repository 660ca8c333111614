package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is an announcement pushed by an admin. A notification
// with an empty UserID is global and shows up for everyone; otherwise it
// targets one account.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"userId,omitempty" bson:"userId,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

type SendNotificationRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	// Email selects the recipient; leave empty to broadcast.
	Email string `json:"email"`
}
