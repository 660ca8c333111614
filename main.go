package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deepshop/cache"
	"deepshop/config"
	"deepshop/database"
	"deepshop/fraud"
	"deepshop/gateway"
	"deepshop/handlers"
	"deepshop/imagehost"
	"deepshop/kafka"
	"deepshop/middleware"
	"deepshop/notifier"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load(logger)

	// Initialize database
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Client().Disconnect(context.Background())

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db, logger); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	// Initialize Redis
	rdb, err := cache.InitRedis(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer rdb.Close()

	// Initialize Kafka producer
	syncProducer, err := kafka.InitProducer(cfg.KafkaBroker, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
	}
	defer syncProducer.Close()
	producer := kafka.NewProducer(syncProducer, cfg.KafkaTopic, logger)

	// Initialize Kafka consumer feeding the notification webhook
	consumer, err := kafka.InitConsumer(cfg.KafkaBroker, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	telegram := notifier.NewTelegram(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	go func() {
		if err := kafka.StartNotificationConsumer(consumer, cfg.KafkaTopic, telegram, logger); err != nil {
			logger.Error("Notification consumer error", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry
	shutdownTracing, err := middleware.InitTracing(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// Stores and clients
	orders := repository.NewOrderStore(db)
	products := repository.NewProductStore(db)
	users := repository.NewUserStore(db)
	siteConfig := repository.NewConfigStore(db)
	sellerRequests := repository.NewSellerRequestStore(db)
	content := repository.NewContentStore(db)
	social := repository.NewSocialStore(db)
	notifications := repository.NewNotificationStore(db)

	carts := cache.NewCartStore(rdb)
	pending := cache.NewPendingStore(rdb)
	productCache := cache.NewProductCache(rdb)
	pins := cache.NewPinStore(rdb)

	gw := gateway.New(cfg.Gateway.BaseURL, cfg.Gateway.Recipient, cfg.Gateway.CallbackURL, cfg.Gateway.AdvanceAmount)
	fraudClient := fraud.NewClient(cfg.FraudURL)
	images := imagehost.NewClient(cfg.ImageHost.UploadURL, cfg.ImageHost.APIKey)

	secret := []byte(cfg.JWTSecret)

	// Handlers
	authHandler := handlers.NewAuthHandler(users, secret, logger)
	profileHandler := handlers.NewProfileHandler(users, orders, logger)
	productHandler := handlers.NewProductHandler(products, content, productCache, logger)
	cartHandler := handlers.NewCartHandler(carts, logger)
	checkoutHandler := handlers.NewCheckoutHandler(orders, siteConfig, carts, pending, gw, producer, logger)
	orderHandler := handlers.NewOrderHandler(orders, logger)
	adminHandler := handlers.NewAdminHandler(orders, users, siteConfig, fraudClient, secret, logger)
	contentHandler := handlers.NewContentHandler(content, logger)
	sellerHandler := handlers.NewSellerHandler(sellerRequests, users, orders, logger)
	socialHandler := handlers.NewSocialHandler(social, pins, logger)
	uploadHandler := handlers.NewUploadHandler(images, logger)
	notificationHandler := handlers.NewNotificationHandler(notifications, users, logger)

	// Setup REST API with Gin
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", middleware.PrometheusHandler())

	api := router.Group("/api")

	// Public surface
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.GET("/products/:id/reviews", productHandler.ListReviews)
	api.GET("/banners", contentHandler.ListBanners)
	api.GET("/ads", contentHandler.ListAds)
	api.GET("/stories", socialHandler.ListStories)
	api.GET("/notes", socialHandler.ListNotes)

	// Authenticated surface
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(secret, users, logger))
	{
		authed.GET("/profile", profileHandler.GetProfile)
		authed.PUT("/profile", profileHandler.UpdateProfile)
		authed.GET("/orders", profileHandler.MyOrders)
		authed.GET("/orders/:id", orderHandler.GetOrder)

		authed.GET("/cart", cartHandler.GetCart)
		authed.PUT("/cart", cartHandler.PutCart)

		authed.GET("/checkout/modes", checkoutHandler.GetModes)
		authed.POST("/checkout/advance", checkoutHandler.InitiateAdvance)
		authed.GET("/checkout/advance/callback", checkoutHandler.AdvanceCallback)
		authed.POST("/checkout/nid", checkoutHandler.CheckoutNID)
		authed.POST("/checkout/cod", checkoutHandler.CheckoutCOD)

		authed.POST("/products/:id/reviews", productHandler.CreateReview)

		authed.POST("/seller/requests", sellerHandler.Apply)

		authed.POST("/chats", socialHandler.OpenChat)
		authed.GET("/chats", socialHandler.ListChats)
		authed.GET("/chats/:id/messages", socialHandler.ListMessages)
		authed.POST("/chats/:id/pin", socialHandler.PinChat)
		authed.POST("/chats/:id/messages", socialHandler.SendMessage)
		authed.POST("/stories", socialHandler.CreateStory)
		authed.POST("/stories/:id/react", socialHandler.ReactStory)
		authed.POST("/notes", socialHandler.CreateNote)

		authed.POST("/uploads", uploadHandler.Upload)

		authed.GET("/notifications", notificationHandler.List)
		authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	}

	// Seller console
	seller := authed.Group("/seller")
	seller.Use(middleware.RequireSeller())
	{
		seller.GET("/orders", sellerHandler.Orders)
		seller.PATCH("/orders/:id/status", sellerHandler.UpdateOrderStatus)
		seller.POST("/products", productHandler.CreateProduct)
		seller.PUT("/products/:id", productHandler.UpdateProduct)
		seller.DELETE("/products/:id", productHandler.DeleteProduct)
	}

	// Admin console
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/orders", adminHandler.ListOrders)
		admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
		admin.GET("/users", adminHandler.ListUsers)
		admin.PATCH("/users/:uid", adminHandler.ModerateUser)
		admin.POST("/shadow/:uid", adminHandler.Shadow)
		admin.GET("/site-config", adminHandler.GetSiteConfig)
		admin.PUT("/site-config", adminHandler.UpdateSiteConfig)
		admin.GET("/fraud-check", adminHandler.FraudCheck)
		admin.POST("/notifications", notificationHandler.Send)

		admin.GET("/seller-requests", sellerHandler.ListRequests)
		admin.PATCH("/seller-requests/:id", sellerHandler.Review)

		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.POST("/banners", contentHandler.CreateBanner)
		admin.DELETE("/banners/:id", contentHandler.DeleteBanner)
		admin.POST("/ads", contentHandler.CreateAd)
		admin.DELETE("/ads/:id", contentHandler.DeleteAd)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Deep Shop API started", zap.String("addr", cfg.HTTPAddr))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
