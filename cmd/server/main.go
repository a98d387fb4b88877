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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/atelierlocal/backend/internal/auth"
	"github.com/atelierlocal/backend/internal/config"
	"github.com/atelierlocal/backend/internal/db"
	"github.com/atelierlocal/backend/internal/events"
	"github.com/atelierlocal/backend/internal/handlers"
	"github.com/atelierlocal/backend/internal/logging"
	"github.com/atelierlocal/backend/internal/middleware/authmw"
	"github.com/atelierlocal/backend/internal/middleware/loggingmw"
	"github.com/atelierlocal/backend/internal/realtime"
	"github.com/atelierlocal/backend/internal/search"
	"github.com/atelierlocal/backend/internal/storage"
	httpserver "github.com/atelierlocal/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	configuration.Validate()

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	database, err := db.Open(ctx, configuration.DATABASE_URL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	codec := auth.NewTokenCodec([]byte(configuration.JWT_SECRET), configuration.JWT_TTL)
	revoked := auth.NewMemoryRevocationStore(codec)
	hashParams := auth.PasswordParams{
		SaltLength:  configuration.HASH_SALT_LENGTH,
		KeyLength:   configuration.HASH_KEY_LENGTH,
		MemoryKiB:   configuration.HASH_MEMORY_KIB,
		TimeCost:    configuration.HASH_TIME_COST,
		Parallelism: configuration.HASH_PARALLELISM,
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	var index *search.Index
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = &search.Index{ES: esClient, Name: configuration.ES_INDEX}
	}

	var store storage.Store
	if configuration.S3_BUCKET != "" {
		objectStore, err := storage.New(ctx, configuration)
		if err != nil {
			log.Fatalf("object storage init error: %v", err)
		}
		store = objectStore
	}

	hub := realtime.NewHub()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Authenticator: &authmw.Authenticator{
			DB:         database,
			Codec:      codec,
			Revoked:    revoked,
			CookieName: configuration.COOKIE_NAME,
		},
		AuthHandler: &handlers.AuthHandler{
			DB:         database,
			Codec:      codec,
			Revoked:    revoked,
			HashParams: hashParams,
			Producer:   producer,
			Index:      index,
			CookieName: configuration.COOKIE_NAME,
		},
		ClientHandler:         &handlers.ClientHandler{DB: database},
		ArtisanHandler:        &handlers.ArtisanHandler{DB: database, Index: index},
		CategoryHandler:       &handlers.CategoryHandler{DB: database},
		AskingHandler:         &handlers.AskingHandler{DB: database, Producer: producer},
		RecommendationHandler: &handlers.RecommendationHandler{DB: database},
		MessageHandler:        &handlers.MessageHandler{DB: database},
		UploadHandler:         &handlers.UploadHandler{DB: database, Store: store},
		AdminHandler:          &handlers.AdminHandler{DB: database},
		SearchHandler:         &handlers.SearchHandler{Index: index},
		Realtime:              realtime.NewServer(database, codec, hub, producer, logger),
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
