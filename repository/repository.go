package repository

import (
	"context"
	"errors"

	"deepshop/models"
)

// ErrNotFound is returned by every store when the requested document does
// not exist, so handlers can map it to 404 uniformly.
var ErrNotFound = errors.New("document not found")

type OrderFilter struct {
	Status   models.OrderStatus
	UserID   string
	SellerID string
	Limit    int64
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (string, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type ProductFilter struct {
	Category string
	SellerID string
	Promoted bool
	Limit    int64
}

type ProductStore interface {
	Insert(ctx context.Context, product *models.Product) (string, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByUID(ctx context.Context, uid string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, uid string, req models.UpdateProfileRequest) error
	Moderate(ctx context.Context, uid string, req models.ModerationRequest) error
}

type NotificationStore interface {
	Insert(ctx context.Context, n *models.Notification) (string, error)
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type ConfigStore interface {
	Get(ctx context.Context) (*models.SiteConfig, error)
	Update(ctx context.Context, cfg *models.SiteConfig) error
}

type SellerRequestStore interface {
	Insert(ctx context.Context, req *models.SellerRequest) (string, error)
	List(ctx context.Context) ([]models.SellerRequest, error)
	SetStatus(ctx context.Context, id string, status models.SellerRequestStatus) (*models.SellerRequest, error)
}

type ContentStore interface {
	InsertBanner(ctx context.Context, b *models.HomeBanner) (string, error)
	ListBanners(ctx context.Context) ([]models.HomeBanner, error)
	DeleteBanner(ctx context.Context, id string) error
	InsertAd(ctx context.Context, ad *models.CustomAd) (string, error)
	ListAds(ctx context.Context, placement models.AdPlacement) ([]models.CustomAd, error)
	DeleteAd(ctx context.Context, id string) error
	InsertReview(ctx context.Context, r *models.Review) (string, error)
	ListReviews(ctx context.Context, productID string) ([]models.Review, error)
}

type SocialStore interface {
	UpsertChat(ctx context.Context, participants []string) (*models.Chat, error)
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)
	AppendMessage(ctx context.Context, msg *models.Message) (string, error)
	ListMessages(ctx context.Context, chatID string) ([]models.Message, error)
	InsertStory(ctx context.Context, s *models.Story) (string, error)
	ListStories(ctx context.Context) ([]models.Story, error)
	ReactStory(ctx context.Context, id, emoji string) error
	InsertNote(ctx context.Context, n *models.Note) (string, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
}
