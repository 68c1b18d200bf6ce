package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/handler"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/middleware"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/api/router"
	adapterrepo "github.com/FusionTech-2430/all-connected-app-sub000/internal/adapter/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	infrafirebase "github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/firebase"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/lookup"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/ratelimit"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/storage"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/websocket"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/usecase"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/config"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProject,
		DatabaseURL:   cfg.DatabaseURL,
		StorageBucket: cfg.StorageBucket,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := infrafirebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	var store repository.RealtimeStore
	if cfg.DatabaseURL != "" {
		store, err = adapterrepo.NewRTDBStore(ctx, app, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to the realtime database: %v", err)
		}
	} else {
		logger.Warn("RTDB_URL is not set, using the in-memory store")
		store = adapterrepo.NewMemoryStore()
	}

	limiter := ratelimit.NewRateLimiter()
	lookupClient := lookup.NewClient(cfg.UsersAPIURL, cfg.OrganizationsAPI)

	notifications := usecase.NewNotificationUseCase(store)
	chats := usecase.NewChatSessionUseCase(store, limiter, notifications)
	directory := usecase.NewChatDirectoryUseCase(store, lookupClient, lookupClient, nil)

	var attachments *usecase.AttachmentUseCase
	var attachmentHandler *handler.AttachmentHandler
	if cfg.StorageBucket != "" {
		uploader, err := storage.NewGCSClient(ctx, cfg.StorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		defer uploader.Close()

		var metadata *firestore.Client
		if cfg.FirebaseProject != "" {
			metadata, err = firestore.NewClient(ctx, cfg.FirebaseProject)
			if err != nil {
				log.Fatalf("Failed to initialize Firestore: %v", err)
			}
			defer metadata.Close()
		}

		var metadataRepo repository.FileMetadataRepository
		if metadata != nil {
			metadataRepo = adapterrepo.NewFirestoreFileMetadataRepository(metadata)
		}
		attachments = usecase.NewAttachmentUseCase(chats, uploader, metadataRepo, limiter)
		attachmentHandler = handler.NewAttachmentHandler(attachments, chats, cfg.MaxUploadBytes)
	} else {
		logger.Warn("STORAGE_BUCKET is not set, attachments are disabled")
	}

	manager := websocket.NewManager()
	go manager.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	var devToken *handler.DevTokenHandler
	if cfg.Environment == "development" {
		devToken = handler.NewDevTokenHandler(authClient)
	}

	router.Setup(e, router.Dependencies{
		Chats:         handler.NewChatHandler(chats, directory),
		Attachments:   attachmentHandler,
		Notifications: handler.NewNotificationHandler(notifications),
		WebSocket:     handler.NewWebSocketHandler(manager, directory, chats, notifications),
		DevToken:      devToken,
		Auth:          middleware.Auth(authClient),
		Environment:   cfg.Environment,
	})

	go func() {
		logger.Info("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Info("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown: %v", err)
	}
}
