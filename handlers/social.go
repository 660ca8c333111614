package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SocialHandler covers the messaging surfaces: peer chats, stories and
// notes. Everything is create/read/react.
type SocialHandler struct {
	social repository.SocialStore
	pins   PinStore
	logger *zap.Logger
}

func NewSocialHandler(social repository.SocialStore, pins PinStore, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{social: social, pins: pins, logger: logger}
}

type openChatRequest struct {
	PeerID string `json:"peerId" binding:"required"`
}

func (h *SocialHandler) OpenChat(c *gin.Context) {
	var req openChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	chat, err := h.social.UpsertChat(c.Request.Context(), []string{user.UID, req.PeerID})
	if err != nil {
		h.logger.Error("Failed to open chat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, chat)
}

// ListChats returns the user's chats with their pinned ones first, each
// group ordered by recency.
func (h *SocialHandler) ListChats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	chats, err := h.social.ListChats(ctx, user.UID)
	if err != nil {
		h.logger.Error("Failed to list chats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	pinnedIDs, err := h.pins.List(ctx, user.UID)
	if err != nil {
		h.logger.Warn("Failed to read pins", zap.String("user_uid", user.UID), zap.Error(err))
		pinnedIDs = nil
	}
	pinned := make(map[string]bool, len(pinnedIDs))
	for _, id := range pinnedIDs {
		pinned[id] = true
	}
	for i := range chats {
		chats[i].Pinned = pinned[chats[i].ID.Hex()]
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].Pinned && !chats[j].Pinned
	})

	c.JSON(http.StatusOK, chats)
}

// PinChat toggles the pin on one of the user's chats.
func (h *SocialHandler) PinChat(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pinned, err := h.pins.Toggle(c.Request.Context(), user.UID, c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to toggle pin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": pinned})
}

type sendMessageBody struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

func (h *SocialHandler) SendMessage(c *gin.Context) {
	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Text == "" && body.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message needs text or an image"})
		return
	}

	user := middleware.CurrentUser(c)
	msg := &models.Message{
		ChatID:    c.Param("id"),
		SenderID:  user.UID,
		Text:      body.Text,
		Image:     body.Image,
		Timestamp: time.Now().UTC(),
	}

	if _, err := h.social.AppendMessage(c.Request.Context(), msg); err != nil {
		h.logger.Error("Failed to send message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *SocialHandler) ListMessages(c *gin.Context) {
	messages, err := h.social.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

type createStoryRequest struct {
	Image   string `json:"image" binding:"required"`
	Caption string `json:"caption"`
}

func (h *SocialHandler) CreateStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	story := &models.Story{
		UserID:    user.UID,
		UserName:  user.Name,
		Image:     req.Image,
		Caption:   req.Caption,
		Timestamp: time.Now().UTC(),
	}

	if _, err := h.social.InsertStory(c.Request.Context(), story); err != nil {
		h.logger.Error("Failed to create story", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *SocialHandler) ListStories(c *gin.Context) {
	stories, err := h.social.ListStories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list stories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stories)
}

type reactRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

func (h *SocialHandler) ReactStory(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.social.ReactStory(c.Request.Context(), c.Param("id"), req.Emoji); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Story not found"})
			return
		}
		h.logger.Error("Failed to react to story", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reaction recorded"})
}

type createNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *SocialHandler) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	note := &models.Note{
		UserID:    user.UID,
		UserName:  user.Name,
		Text:      req.Text,
		Timestamp: time.Now().UTC(),
	}

	if _, err := h.social.InsertNote(c.Request.Context(), note); err != nil {
		h.logger.Error("Failed to create note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *SocialHandler) ListNotes(c *gin.Context) {
	notes, err := h.social.ListNotes(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list notes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, notes)
}
