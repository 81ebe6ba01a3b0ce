package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitlink/pt-marketplace/internal/api"
	"fitlink/pt-marketplace/internal/config"
	"fitlink/pt-marketplace/internal/repository/mongo"
	"fitlink/pt-marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title PT Marketplace Scheduling API
// @version 1.0
// @description API for trainer packages, recurring schedule generation and training sessions.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting PT Marketplace Scheduling Server...")

	// Local development convenience; a missing .env is not an error.
	if err := godotenv.Load(); err == nil {
		log.Println(".env file loaded.")
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsurePackageIndexes(ctx, appDB.Collection("packages"))
		mongo.EnsureTrainerProfileIndexes(ctx, appDB.Collection("trainer_profiles"))
		mongo.EnsureSlotIndexes(ctx, appDB.Collection("slots"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	packageRepo := mongo.NewMongoPackageRepository(appDB)
	profileRepo := mongo.NewMongoTrainerProfileRepository(appDB)
	slotRepo := mongo.NewMongoSlotRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	scheduleService := service.NewScheduleService(packageRepo, profileRepo, slotRepo, cfg.Scheduling.SlotTTLGrace)
	packageService := service.NewPackageService(packageRepo)
	trainerService := service.NewTrainerService(profileRepo, packageRepo, slotRepo, sessionRepo, cfg.Scheduling.SlotTTLGrace)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, scheduleService, packageService, trainerService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
