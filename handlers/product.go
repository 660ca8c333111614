package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products repository.ProductStore
	content  repository.ContentStore
	cache    ProductCache
	logger   *zap.Logger
}

func NewProductHandler(products repository.ProductStore, content repository.ContentStore, cache ProductCache, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		content:  content,
		cache:    cache,
		logger:   logger,
	}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "GetProducts")
	defer span.End()

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		SellerID: c.Query("seller"),
		Promoted: c.Query("promoted") == "true",
	}

	products, err := h.products.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to fetch products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	span.SetAttributes(attribute.Int("products.count", len(products)))
	c.JSON(http.StatusOK, products)
}

// GetProduct serves a single product, cache first, and bumps the view
// counter on every hit.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "GetProduct")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	// Views increment is fire-and-forget; a miss here never blocks the read.
	if err := h.products.IncrementViews(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.logger.Warn("Failed to increment views", zap.String("product_id", id), zap.Error(err))
	}

	if cached, err := h.cache.Get(ctx, id); err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		c.JSON(http.StatusOK, cached)
		return
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	product, err := h.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		span.RecordError(err)
		h.logger.Error("Failed to fetch product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.cache.Set(ctx, id, product); err != nil {
		h.logger.Warn("Failed to cache product", zap.String("product_id", id), zap.Error(err))
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct serves both the admin console and approved sellers;
// seller-created products carry the seller's identity for order
// partitioning.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "CreateProduct")
	defer span.End()

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stock := req.Stock
	if stock == "" {
		stock = models.StockInStock
	}
	if !stock.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock status"})
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Description: req.Description,
		Image:       req.Image,
		Stock:       stock,
		IsPromoted:  req.IsPromoted,
		Timestamp:   time.Now().UTC(),
	}

	user := middleware.CurrentUser(c)
	if !user.IsAdmin {
		product.SellerID = user.UID
		product.SellerName = user.Name
		product.SellerPhone = user.Phone
	}

	id, err := h.products.Insert(ctx, product)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	span.SetAttributes(attribute.String("product.id", id))
	h.logger.Info("Product created", zap.String("product_id", id))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "UpdateProduct")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Stock != "" && !req.Stock.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock status"})
		return
	}

	if !h.canManage(c, ctx, id) {
		return
	}

	product, err := h.products.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		span.RecordError(err)
		h.logger.Error("Failed to update product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.cache.Delete(ctx, id); err != nil {
		h.logger.Warn("Failed to invalidate product cache", zap.String("product_id", id), zap.Error(err))
	}

	h.logger.Info("Product updated", zap.String("product_id", id))
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "DeleteProduct")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	if !h.canManage(c, ctx, id) {
		return
	}

	if err := h.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		span.RecordError(err)
		h.logger.Error("Failed to delete product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.cache.Delete(ctx, id); err != nil {
		h.logger.Warn("Failed to invalidate product cache", zap.String("product_id", id), zap.Error(err))
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// canManage lets admins touch any product and sellers only their own.
// Writes the error response itself when access is refused.
func (h *ProductHandler) canManage(c *gin.Context, ctx context.Context, id string) bool {
	user := middleware.CurrentUser(c)
	if user.IsAdmin {
		return true
	}

	product, err := h.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return false
		}
		h.logger.Error("Failed to fetch product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}
	if product.SellerID != user.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your product"})
		return false
	}
	return true
}

func (h *ProductHandler) ListReviews(c *gin.Context) {
	reviews, err := h.content.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *ProductHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	review := &models.Review{
		ProductID: c.Param("id"),
		UserID:    user.UID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Timestamp: time.Now().UTC(),
	}

	id, err := h.content.InsertReview(c.Request.Context(), review)
	if err != nil {
		h.logger.Error("Failed to create review", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Review created", zap.String("review_id", id))
	c.JSON(http.StatusCreated, review)
}
