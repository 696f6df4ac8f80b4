package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storyloom-backend/internal/domain"
	"storyloom-backend/internal/service"
)

func (h *Handler) handlePublishStory(w http.ResponseWriter, r *http.Request) {
	var req domain.PublishStoryRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	story, err := h.stories.Publish(r.Context(), userIDFromRequest(r), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]*domain.Story{"story": story})
}

func (h *Handler) handleListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.stories.ListStories(r.Context(), r.URL.Query().Get("type"), r.URL.Query().Get("q"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if stories == nil {
		stories = []domain.StoryWithAuthor{}
	}
	h.respondJSON(w, http.StatusOK, domain.StoriesResponse{Stories: stories})
}

func (h *Handler) handleGetStory(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.GetStory(r.Context(), chi.URLParam(r, "storyID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.StoryResponse{Story: story})
}

func (h *Handler) handleStoriesByUser(w http.ResponseWriter, r *http.Request) {
	stories, err := h.stories.StoriesByAuthor(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	if stories == nil {
		stories = []domain.StoryWithAuthor{}
	}
	h.respondJSON(w, http.StatusOK, domain.StoriesResponse{Stories: stories})
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "cursor", 0)
	if err != nil {
		h.respondError(w, err)
		return
	}
	count, err := queryInt(r, "count", 0)
	if err != nil {
		h.respondError(w, err)
		return
	}

	stories, err := h.stories.Feed(r.Context(), userIDFromRequest(r), offset, count)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := domain.FeedResponse{
		Stories:    stories,
		Pagination: domain.FeedPagination{Count: int64(len(stories))},
	}
	if len(stories) > 0 {
		next := offset + int64(len(stories))
		resp.Pagination.NextCursor = &next
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	resp, err := h.stories.ToggleLike(r.Context(), chi.URLParam(r, "storyID"), userIDFromRequest(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleLikeStatus(w http.ResponseWriter, r *http.Request) {
	liked, err := h.stories.IsLiked(r.Context(), chi.URLParam(r, "storyID"), userIDFromRequest(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req domain.AddCommentRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	comment, err := h.stories.AddComment(r.Context(), chi.URLParam(r, "storyID"), userIDFromRequest(r), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, domain.CommentResponse{Comment: comment})
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.stories.ListComments(r.Context(), chi.URLParam(r, "storyID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, domain.CommentsResponse{Comments: comments})
}

func queryInt(r *http.Request, key string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, key)
	}
	return n, nil
}
