package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"storyloom-backend/internal/auth"
	"storyloom-backend/internal/config"
	"storyloom-backend/internal/handler"
	"storyloom-backend/internal/repository"
	"storyloom-backend/internal/service"
	"storyloom-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	var logger *zap.Logger
	if cfg.Dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer logger.Sync()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err))
	}

	users := repository.NewUserRepository(st)
	stories := repository.NewStoryRepository(st)
	follows := repository.NewFollowRepository(st)

	tokens := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	userSvc := service.NewUserService(users, follows, tokens, logger)
	storySvc := service.NewStoryService(stories, logger)

	h := handler.New(userSvc, storySvc, tokens, logger)

	r := chi.NewRouter()

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Mount("/api", h.Routes())

	logger.Info("server starting",
		zap.String("addr", cfg.Addr),
		zap.String("database", st.Path()),
	)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
