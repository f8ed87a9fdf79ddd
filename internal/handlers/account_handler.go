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

type AccountHandler struct {
	accounts services.AccountService
	profiles services.ProfileService
	avatars  services.AvatarService
}

func NewAccountHandler(accounts services.AccountService, profiles services.ProfileService, avatars services.AvatarService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		profiles: profiles,
		avatars:  avatars,
	}
}

// DeleteAccount removes the profile, its username reservation, the stored
// avatar, and the authentication record for the caller.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	photoURL, err := h.profiles.Delete(ctx, userID)
	if err != nil && err != services.ErrProfileNotFound {
		log.Printf("[DeleteAccount] user=%s profile error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}

	if photoURL != "" {
		if err := h.avatars.Remove(ctx, userID); err != nil {
			// Storage cleanup is best effort; the account still goes away.
			log.Printf("[DeleteAccount] user=%s avatar error=%v", userID, err)
		}
	}

	if err := h.accounts.Delete(ctx, userID); err != nil && err != services.ErrAccountNotFound {
		log.Printf("[DeleteAccount] user=%s account error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}

	log.Printf("[DeleteAccount] user=%s deleted", userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Account deleted"}))
}
