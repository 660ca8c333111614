package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type HomeBanner struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ImageURL string             `json:"imageUrl" bson:"imageUrl"`
	Link     string             `json:"link,omitempty" bson:"link,omitempty"`
	Order    int                `json:"order" bson:"order"`
}

type AdPlacement string

const (
	AdHomeTop    AdPlacement = "home_top"
	AdHomeMiddle AdPlacement = "home_middle"
	AdHomeBottom AdPlacement = "home_bottom"
)

type CustomAd struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ImageURL  string             `json:"imageUrl" bson:"imageUrl"`
	Link      string             `json:"link,omitempty" bson:"link,omitempty"`
	Text      string             `json:"text" bson:"text"`
	Placement AdPlacement        `json:"placement" bson:"placement"`
	Order     int                `json:"order" bson:"order"`
}
