package handlers

import (
	"errors"
	"net/http"
	"time"

	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifications repository.NotificationStore
	users         repository.UserStore
	logger        *zap.Logger
}

func NewNotificationHandler(notifications repository.NotificationStore, users repository.UserStore, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users, logger: logger}
}

// Send creates an admin announcement. With an email the notification
// targets that account; without one it goes out globally.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req models.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	n := &models.Notification{
		Title:     req.Title,
		Message:   req.Message,
		Timestamp: time.Now().UTC(),
	}

	if req.Email != "" {
		target, err := h.users.FindByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No user with that email"})
				return
			}
			h.logger.Error("Failed to resolve notification target", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		n.UserID = target.UID
	}

	if _, err := h.notifications.Insert(ctx, n); err != nil {
		h.logger.Error("Failed to send notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Notification sent",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("target_uid", n.UserID),
		zap.Bool("global", n.UserID == ""),
	)
	c.JSON(http.StatusCreated, n)
}

// List returns the caller's notifications: global ones plus those
// targeted at them, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	notifications, err := h.notifications.ListForUser(c.Request.Context(), user.UID)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), user.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.logger.Error("Failed to mark notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}
