package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SellerRank string

const (
	RankBronze   SellerRank = "bronze"
	RankSilver   SellerRank = "silver"
	RankGold     SellerRank = "gold"
	RankPlatinum SellerRank = "platinum"
	RankDiamond  SellerRank = "diamond"
	RankHero     SellerRank = "hero"
	RankGrand    SellerRank = "grand"
)

type User struct {
	ID               primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UID              string             `json:"uid" bson:"uid"`
	Name             string             `json:"name" bson:"name"`
	Email            string             `json:"email" bson:"email"`
	Phone            string             `json:"phone" bson:"phone"`
	Address          string             `json:"address,omitempty" bson:"address,omitempty"`
	PasswordHash     string             `json:"-" bson:"passwordHash"`
	RewardPoints     int                `json:"rewardPoints" bson:"rewardPoints"`
	RankOverride     SellerRank         `json:"rankOverride,omitempty" bson:"rankOverride,omitempty"`
	IsAdmin          bool               `json:"isAdmin" bson:"isAdmin"`
	IsBanned         bool               `json:"isBanned" bson:"isBanned"`
	IsSellerApproved bool               `json:"isSellerApproved" bson:"isSellerApproved"`
	// BannedDevices lists hardware ids blacklisted for this account.
	// A banned device is rejected even when the account itself is not.
	BannedDevices []string  `json:"bannedDevices,omitempty" bson:"bannedDevices,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"deviceId"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ModerationRequest is the admin-side user mutation surface. Nil fields
// are left untouched.
type ModerationRequest struct {
	IsBanned         *bool       `json:"isBanned"`
	IsSellerApproved *bool       `json:"isSellerApproved"`
	RewardPoints     *int        `json:"rewardPoints"`
	RankOverride     *SellerRank `json:"rankOverride"`
	BannedDevices    *[]string   `json:"bannedDevices"`
}

type SellerRequestStatus string

const (
	SellerRequestPending  SellerRequestStatus = "pending"
	SellerRequestApproved SellerRequestStatus = "approved"
	SellerRequestRejected SellerRequestStatus = "rejected"
)

type SellerRequest struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID    string              `json:"userId" bson:"userId"`
	UserName  string              `json:"userName" bson:"userName"`
	UserPhone string              `json:"userPhone" bson:"userPhone"`
	Status    SellerRequestStatus `json:"status" bson:"status"`
	Timestamp time.Time           `json:"timestamp" bson:"timestamp"`
}
