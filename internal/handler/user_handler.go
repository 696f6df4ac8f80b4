package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storyloom-backend/internal/domain"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	resp, err := h.users.Login(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.UserResponse{User: user})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userIDFromRequest(r), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.UserResponse{User: user})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.GetStats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.StatsResponse{Stats: stats})
}

func (h *Handler) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	following, err := h.users.ToggleFollow(r.Context(), userIDFromRequest(r), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.FollowResponse{Following: following})
}

func (h *Handler) handleFollowStatus(w http.ResponseWriter, r *http.Request) {
	following, err := h.users.IsFollowing(r.Context(), userIDFromRequest(r), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.FollowResponse{Following: following})
}

func (h *Handler) handleFollowers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetFollowers(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.UsersResponse{Users: users})
}

func (h *Handler) handleFollowing(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetFollowing(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.UsersResponse{Users: users})
}
