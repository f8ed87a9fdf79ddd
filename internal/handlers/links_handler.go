package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/officialyou/backend/internal/links"
	"github.com/officialyou/backend/internal/middleware"
	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/services"
)

// LinksHandler covers the link-list edit operations. Each operation loads the
// owner's current normalized list, applies a pure transform, and saves the
// result in the canonical shape.
type LinksHandler struct {
	profiles services.ProfileService
}

func NewLinksHandler(profiles services.ProfileService) *LinksHandler {
	return &LinksHandler{profiles: profiles}
}

// currentLinks loads the caller's profile and returns its normalized list.
func (h *LinksHandler) currentLinks(ctx context.Context, userID string) ([]models.LinkEntry, error) {
	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return links.Normalize(prof), nil
}

func (h *LinksHandler) save(ctx context.Context, w http.ResponseWriter, userID string, list []models.LinkEntry) {
	prof, err := h.profiles.SetLinks(ctx, userID, list)
	if err != nil {
		log.Printf("[SaveLinks] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save links"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(viewProfile(prof)))
}

// SetLinks replaces the whole list; this is how the editor persists an edit
// session.
func (h *LinksHandler) SetLinks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.SetLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := links.ValidateList(req.Links); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	h.save(ctx, w, userID, req.Links)
}

func (h *LinksHandler) AddCustomLink(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.AddCustomLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.currentLinks(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	list, err = links.AddCustom(list, req.Title, req.URL)
	if err != nil {
		switch err {
		case links.ErrTitleRequired:
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"title": "Title is required"}))
		case links.ErrURLRequired:
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{"url": "URL is required"}))
		default:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid link"))
		}
		return
	}

	h.save(ctx, w, userID, list)
}

// UpsertSocialLink sets or clears the URL for one fixed platform.
func (h *LinksHandler) UpsertSocialLink(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	platform := chi.URLParam(r, "platform")

	var req models.UpsertSocialLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.currentLinks(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	list, err = links.UpsertSocial(list, platform, req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown social platform"))
		return
	}

	h.save(ctx, w, userID, list)
}

func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	linkID := chi.URLParam(r, "linkId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.currentLinks(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	h.save(ctx, w, userID, links.Delete(list, linkID))
}

// MoveLink swaps the entry at the index with its neighbor. Boundary moves are
// accepted and return the unchanged list.
func (h *LinksHandler) MoveLink(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid link index"))
		return
	}

	var req models.MoveLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	dir := links.MoveDirection(req.Direction)
	if dir != links.MoveUp && dir != links.MoveDown {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Direction must be up or down"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.currentLinks(ctx, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	h.save(ctx, w, userID, links.Move(list, index, dir))
}
