package main

import (
	"context"
	"log"

	api "chat-notify-backend/cmd/api"
	auditdomain "chat-notify-backend/internal/audit/domain"
	auditRepo "chat-notify-backend/internal/audit/repository"
	broadcastRepo "chat-notify-backend/internal/broadcast/repository"
	broadcastUsecase "chat-notify-backend/internal/broadcast/usecase"
	tokenRepo "chat-notify-backend/internal/token/repository"
	tokenUsecase "chat-notify-backend/internal/token/usecase"
	"chat-notify-backend/internal/trigger"
	"chat-notify-backend/pkg/config"
	"chat-notify-backend/pkg/database"
	"chat-notify-backend/pkg/fcm"
	fsclient "chat-notify-backend/pkg/firestore"
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx := context.Background()

	// Initialize Firestore (token registry, users, notification inbox)
	firestoreClient, err := fsclient.NewClient(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize Firestore:", err)
	}
	defer firestoreClient.Close()

	// Initialize FCM push gateway
	fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize FCM client:", err)
	}

	// Initialize audit log (optional)
	var runRepo auditRepo.RunRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := db.AutoMigrate(&auditdomain.BroadcastRun{}, &auditdomain.SweepRun{}); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		runRepo = auditRepo.NewRunRepository(db)
	} else {
		log.Println("[WARN] DATABASE_URL not configured, run audit log disabled")
	}

	// Initialize repositories (dependency injection)
	userRepository := broadcastRepo.NewUserRepository(firestoreClient)
	notificationRepository := broadcastRepo.NewNotificationRepository(firestoreClient)
	tokenRepository := tokenRepo.NewTokenRepository(firestoreClient)

	// Initialize use cases
	fanout := broadcastUsecase.NewFanoutUsecase(userRepository, notificationRepository, tokenRepository, fcmClient, runRepo)
	sweeper := tokenUsecase.NewSweeperUsecase(tokenRepository, fcmClient, runRepo)

	// Start Pub/Sub trigger listener if a project is configured
	if cfg.GoogleProjectID != "" {
		listener, err := trigger.NewListener(cfg.GoogleProjectID, cfg.PubSubMessageTopic, cfg.PubSubSweepTopic, cfg.FirebaseCredentials, fanout, sweeper)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize trigger listener: %v", err)
		} else {
			listener.Start(ctx)
		}
	} else {
		log.Println("[WARN] GOOGLE_PROJECT_ID not configured, Pub/Sub triggers disabled")
	}

	// Start the in-process sweep scheduler
	if cfg.SweepSchedulerOn {
		scheduler := trigger.NewSweepScheduler(sweeper, cfg.SweepInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Start HTTP trigger endpoints
	handler := api.NewHandler(fanout, sweeper)
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
