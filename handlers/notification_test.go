package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (f *fakeNotificationStore) Insert(_ context.Context, n *models.Notification) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = primitive.NewObjectID()
	f.notifications = append(f.notifications, *n)
	return n.ID.Hex(), nil
}

func (f *fakeNotificationStore) ListForUser(_ context.Context, userID string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == "" || n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID.Hex() == id && f.notifications[i].UserID == userID {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func notificationRouter(t *testing.T, store *fakeNotificationStore, users *fakeUserStore, user *models.User) *gin.Engine {
	t.Helper()
	h := NewNotificationHandler(store, users, zaptest.NewLogger(t))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetUser(c, user)
		c.Next()
	})
	router.POST("/admin/notifications", h.Send)
	router.GET("/notifications", h.List)
	router.PATCH("/notifications/:id/read", h.MarkRead)
	return router
}

func TestSendNotification_GlobalWhenNoEmail(t *testing.T) {
	store := &fakeNotificationStore{}
	users := newFakeUserStore()
	router := notificationRouter(t, store, users, testAdmin())

	w := postJSON(router, "/admin/notifications", map[string]string{
		"title":   "Eid sale",
		"message": "Everything 20% off until Friday",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if len(store.notifications) != 1 {
		t.Fatalf("stored = %d notifications, want 1", len(store.notifications))
	}
	if got := store.notifications[0]; got.UserID != "" || got.IsRead {
		t.Fatalf("expected an unread global notification, got %+v", got)
	}
}

func TestSendNotification_TargetedByEmail(t *testing.T) {
	store := &fakeNotificationStore{}
	users := newFakeUserStore()
	target := seedUser(t, users, "rahim@example.com", "secret123", false)
	router := notificationRouter(t, store, users, testAdmin())

	w := postJSON(router, "/admin/notifications", map[string]string{
		"title":   "Order update",
		"message": "Your parcel ships tomorrow",
		"email":   "rahim@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if got := store.notifications[0].UserID; got != target.UID {
		t.Fatalf("notification userId = %q, want %q", got, target.UID)
	}
}

func TestSendNotification_UnknownEmail(t *testing.T) {
	store := &fakeNotificationStore{}
	users := newFakeUserStore()
	router := notificationRouter(t, store, users, testAdmin())

	w := postJSON(router, "/admin/notifications", map[string]string{
		"title":   "Order update",
		"message": "Your parcel ships tomorrow",
		"email":   "ghost@example.com",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if len(store.notifications) != 0 {
		t.Fatal("nothing should be stored for an unknown recipient")
	}
}

func TestListNotifications_MergesGlobalAndOwn(t *testing.T) {
	store := &fakeNotificationStore{}
	users := newFakeUserStore()
	now := time.Now().UTC()
	store.notifications = []models.Notification{
		{ID: primitive.NewObjectID(), Title: "Global", Timestamp: now.Add(-2 * time.Hour)},
		{ID: primitive.NewObjectID(), UserID: "uid-buyer-1", Title: "Mine", Timestamp: now},
		{ID: primitive.NewObjectID(), UserID: "uid-someone-else", Title: "Not mine", Timestamp: now.Add(-time.Hour)},
	}
	router := notificationRouter(t, store, users, testBuyer())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var got []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("listed = %d notifications, want 2", len(got))
	}
	if got[0].Title != "Mine" || got[1].Title != "Global" {
		t.Fatalf("expected newest first with foreign ones filtered, got %q then %q", got[0].Title, got[1].Title)
	}
}

func TestMarkRead_OwnNotification(t *testing.T) {
	store := &fakeNotificationStore{}
	users := newFakeUserStore()
	own := models.Notification{ID: primitive.NewObjectID(), UserID: "uid-buyer-1", Title: "Mine"}
	store.notifications = []models.Notification{own}
	router := notificationRouter(t, store, users, testBuyer())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/notifications/"+own.ID.Hex()+"/read", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if !store.notifications[0].IsRead {
		t.Fatal("notification should be marked read")
	}
}

func TestMarkRead_ForeignNotificationNotFound(t *testing.T) {
	store := &fakeNotificationStore{}
	users := newFakeUserStore()
	foreign := models.Notification{ID: primitive.NewObjectID(), UserID: "uid-someone-else", Title: "Not mine"}
	store.notifications = []models.Notification{foreign}
	router := notificationRouter(t, store, users, testBuyer())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/notifications/"+foreign.ID.Hex()+"/read", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if store.notifications[0].IsRead {
		t.Fatal("foreign notification must stay untouched")
	}
}
