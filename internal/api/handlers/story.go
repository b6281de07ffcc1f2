package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dcollins/storyshare/internal/api/middleware"
	"github.com/dcollins/storyshare/internal/domain"
	"github.com/dcollins/storyshare/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type StoryHandler struct {
	storyService *service.StoryService
}

func NewStoryHandler(storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

type StoryRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Visibility string `json:"visibility"`
}

func (r StoryRequest) input() service.StoryInput {
	return service.StoryInput{
		Title:      r.Title,
		Body:       r.Body,
		Visibility: domain.Visibility(r.Visibility),
	}
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	viewer := middleware.GetViewer(r.Context())
	story, err := h.storyService.Create(r.Context(), viewer, req.input())
	if err != nil {
		writeStoryError(w, "StoryHandler.Create", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(story)
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// A malformed id is indistinguishable from a missing story.
		http.Error(w, "Story not found", http.StatusNotFound)
		return
	}

	viewer := middleware.GetViewer(r.Context())
	story, err := h.storyService.Get(r.Context(), viewer, id)
	if err != nil {
		writeStoryError(w, "StoryHandler.Get", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(story)
}

func (h *StoryHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.ListPublic(r.Context())
	if err != nil {
		writeStoryError(w, "StoryHandler.ListPublic", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"stories": stories})
}

func (h *StoryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetViewer(r.Context())
	stories, err := h.storyService.ListMine(r.Context(), viewer)
	if err != nil {
		writeStoryError(w, "StoryHandler.ListMine", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"stories": stories})
}

func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Story not found", http.StatusNotFound)
		return
	}

	var req StoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	viewer := middleware.GetViewer(r.Context())
	story, err := h.storyService.Update(r.Context(), viewer, id, req.input())
	if err != nil {
		writeStoryError(w, "StoryHandler.Update", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(story)
}

func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Story not found", http.StatusNotFound)
		return
	}

	viewer := middleware.GetViewer(r.Context())
	if err := h.storyService.Delete(r.Context(), viewer, id); err != nil {
		writeStoryError(w, "StoryHandler.Delete", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// writeStoryError maps domain errors to HTTP statuses. Policy denials are
// terminal; only unexpected failures are logged.
func writeStoryError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		http.Error(w, "Authentication required", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrNotStoryOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrStoryNotFound):
		http.Error(w, "Story not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyBody),
		errors.Is(err, domain.ErrBadVisibility):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("ERROR [%s] %v", op, err)
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
	default:
		log.Printf("ERROR [%s] %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
