package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/blog_backend/internal/config"
	"github.com/Skotchmaster/blog_backend/internal/db"
	"github.com/Skotchmaster/blog_backend/internal/events"
	"github.com/Skotchmaster/blog_backend/internal/handlers"
	"github.com/Skotchmaster/blog_backend/internal/logging"
	authmw "github.com/Skotchmaster/blog_backend/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/blog_backend/internal/middleware/logging"
	"github.com/Skotchmaster/blog_backend/internal/search"
	"github.com/Skotchmaster/blog_backend/internal/tokens"
	httpserver "github.com/Skotchmaster/blog_backend/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	database, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddress}, cfg.KafkaTopic)
	}

	var searchSvc *search.Service
	if cfg.ES_URL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchSvc = search.NewService(esClient, "posts")
	}

	tokenSvc := tokens.NewService(cfg.JWTSecret)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:               database,
		Guard:            authmw.NewGuard(database, tokenSvc),
		AuthHandler:      &handlers.AuthHandler{DB: database, Tokens: tokenSvc, Producer: producer},
		PostHandler:      &handlers.PostHandler{DB: database, Producer: producer, Search: searchSvc},
		CommentHandler:   &handlers.CommentHandler{DB: database, Producer: producer},
		AdminHandler:     &handlers.AdminHandler{DB: database},
		PostCreatePolicy: cfg.PostCreatePolicy,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
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

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
