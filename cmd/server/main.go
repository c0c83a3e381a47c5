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

	"fitcollab/fitness-app/internal/api"
	"fitcollab/fitness-app/internal/config"
	"fitcollab/fitness-app/internal/repository/mongo"
	"fitcollab/fitness-app/internal/service"
	"fitcollab/fitness-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Fitness Plan Server...")

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
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureRelationshipIndexes(ctx, appDB.Collection("relationships"))
		mongo.EnsureTrainingWeekIndexes(ctx, appDB.Collection("training_weeks"))
		mongo.EnsureDietIndexes(ctx, appDB.Collection("diets"))
		mongo.EnsureWeightRecordIndexes(ctx, appDB.Collection("weight_records"))
		mongo.EnsureHistoryIndexes(ctx, appDB.Collection("history_events"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	relationshipRepo := mongo.NewMongoRelationshipRepository(appDB)
	trainingWeekRepo := mongo.NewMongoTrainingWeekRepository(appDB)
	dietRepo := mongo.NewMongoDietRepository(appDB)
	weightRepo := mongo.NewMongoWeightRecordRepository(appDB)
	historyRepo := mongo.NewMongoHistoryRepository(appDB)
	txRunner := mongo.NewMongoTxRunner(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authorizer := service.NewAuthorizer(relationshipRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(trainingWeekRepo, dietRepo, historyRepo, authorizer, txRunner)
	userService := service.NewUserService(userRepo, weightRepo, historyRepo, authorizer, txRunner, fileStorage)
	relationshipService := service.NewRelationshipService(userRepo, relationshipRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, userService, relationshipService)

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
