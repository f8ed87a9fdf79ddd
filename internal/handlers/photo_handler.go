package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/officialyou/backend/internal/middleware"
	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/services"
)

type PhotoHandler struct {
	avatars   services.AvatarService
	profiles  services.ProfileService
	maxSizeMB int64
}

func NewPhotoHandler(avatars services.AvatarService, profiles services.ProfileService, maxSizeMB int64) *PhotoHandler {
	return &PhotoHandler{
		avatars:   avatars,
		profiles:  profiles,
		maxSizeMB: maxSizeMB,
	}
}

// Upload replaces the caller's avatar and writes the new URL to the profile.
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Image must be less than 5MB"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No image file provided"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid image type. Allowed: JPEG, PNG, GIF, WebP"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	photoURL, err := h.avatars.Upload(ctx, userID, contentType, file)
	if err != nil {
		log.Printf("[PhotoUpload] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to upload image"))
		return
	}

	if _, err := h.profiles.SetPhotoURL(ctx, userID, photoURL); err != nil {
		log.Printf("[PhotoUpload] user=%s set photo error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.PhotoUploadResponse{PhotoURL: photoURL}))
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
