package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/router"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/config"
	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/firebase"
	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/push"
	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/storage"
	"github.com/kanjinagahisa/carebridge-hub-sub000/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase (optional; nil disables Firebase login)
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Push delivery; a nil client soft-disables dispatch
	var pushSender services.PushSender
	if client := push.NewClient(cfg); client != nil {
		pushSender = client
	}

	// Object storage; nil disables signed URLs and uploads
	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	var urlSigner *services.URLSigner
	var objectStore services.ObjectStore
	if store != nil {
		urlSigner = services.NewURLSigner(store)
		objectStore = store
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	var firebaseAuthClient = firebaseAuthClientOf(firebaseApp)
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseAuthClient, pushSender, urlSigner, objectStore)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func firebaseAuthClientOf(app *firebase.App) *auth.Client {
	if app == nil {
		return nil
	}
	return app.AuthClient
}
