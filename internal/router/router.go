package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/handlers"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, pushSender services.PushSender, urlSigner *services.URLSigner, store services.ObjectStore) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Facility{},
		&models.CareGroup{},
		&models.Client{},
		&models.Reaction{},
		&models.ReadMarker{},
		&models.Bookmark{},
		&models.PushSubscription{},
		&models.Invite{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(cfg.MongoDatabase)
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	facilityRepo := repositories.NewPostgresFacilityRepository(pgdb)
	inviteRepo := repositories.NewPostgresInviteRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	attachmentRepo := repositories.NewMongoAttachmentRepository(mongoDB)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	readMarkerRepo := repositories.NewPostgresReadMarkerRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	subscriptionRepo := repositories.NewPostgresPushSubscriptionRepository(pgdb)

	// --- Initialize Services ---
	readTracker := services.NewReadTracker(readMarkerRepo, postRepo)
	reactions := services.NewReactions(reactionRepo, postRepo, userRepo)
	dispatcher := services.NewDispatcher(subscriptionRepo, pushSender)
	attachments := services.NewAttachments(attachmentRepo, store)
	feed := services.NewFeed(postRepo, userRepo, reactionRepo, readMarkerRepo, bookmarkRepo, attachmentRepo, readTracker, urlSigner)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, inviteRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret, firebaseAuthClient, userRepo))
	log.Println("Authentication middleware applied to /api/v1 group.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, facilityRepo, userRepo, dispatcher)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feed, readTracker)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactions, reactionRepo)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	// Bookmark routes
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	// Push subscription and dispatch routes
	pushHandler := handlers.NewPushHandler(subscriptionRepo, postRepo, userRepo, dispatcher)
	pushHandler.RegisterPushRoutes(api)
	log.Println("Push routes configured.")

	// Attachment routes
	attachmentHandler := handlers.NewAttachmentHandler(attachments, attachmentRepo, postRepo)
	attachmentHandler.RegisterAttachmentRoutes(api)
	log.Println("Attachment routes configured.")

	// Invite routes
	inviteHandler := handlers.NewInviteHandler(inviteRepo)
	inviteHandler.RegisterInviteRoutes(api)
	log.Println("Invite routes configured.")

	log.Println("All routes configured.")
}
