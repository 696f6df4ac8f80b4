// Package handler maps HTTP requests onto the application services and the
// service error kinds onto status codes. Nothing below this layer knows
// about HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storyloom-backend/internal/auth"
	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/repository"
	"storyloom-backend/internal/service"
	"storyloom-backend/internal/store"
)

type Handler struct {
	users   *service.UserService
	stories *service.StoryService
	tokens  *auth.TokenManager
	logger  *zap.Logger
}

func New(users *service.UserService, stories *service.StoryService, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{users: users, stories: stories, tokens: tokens, logger: logger}
}

// Routes wires the API surface. Reads that don't act on behalf of a user are
// public; everything that mutates or depends on the caller's identity sits
// behind the token middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Get("/stories", h.handleListStories)
	r.Get("/stories/user/{userID}", h.handleStoriesByUser)
	r.Get("/stories/{storyID}", h.handleGetStory)
	r.Get("/stories/{storyID}/comments", h.handleListComments)

	r.Get("/users/{userID}", h.handleGetUser)
	r.Get("/users/{userID}/stats", h.handleStats)
	r.Get("/users/{userID}/followers", h.handleFollowers)
	r.Get("/users/{userID}/following", h.handleFollowing)

	r.Group(func(r chi.Router) {
		r.Use(h.tokens.Middleware)

		r.Post("/stories", h.handlePublishStory)
		r.Post("/stories/{storyID}/like", h.handleToggleLike)
		r.Get("/stories/{storyID}/like", h.handleLikeStatus)
		r.Post("/stories/{storyID}/comments", h.handleAddComment)
		r.Get("/feed", h.handleFeed)

		r.Put("/users/me", h.handleUpdateProfile)
		r.Post("/users/{userID}/follow", h.handleToggleFollow)
		r.Get("/users/{userID}/follow", h.handleFollowStatus)
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrSelfFollow):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, repository.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrStoryNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, repository.ErrDuplicateUser):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, store.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		message = "storage unavailable"
		h.logger.Error("storage failure", zap.Error(err))
	default:
		h.logger.Error("unhandled error", zap.Error(err))
	}

	h.respondJSON(w, status, domain.ErrorResponse{Code: status, Message: message})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return nil
}

func userIDFromRequest(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}
