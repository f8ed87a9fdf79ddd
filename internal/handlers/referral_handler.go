package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/services"
)

type ReferralHandler struct {
	referrals services.ReferralService
}

func NewReferralHandler(referrals services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// CreateCodes bulk-creates invite codes from a newline-separated list.
// Admin-token protected at the router.
func (h *ReferralHandler) CreateCodes(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	codes := services.ParseCodes(req.Codes)
	if len(codes) == 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"codes": "At least one code is required",
		}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	results, err := h.referrals.BulkCreate(ctx, "admin", codes)
	if err != nil {
		log.Printf("[CreateCodes] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create codes"))
		return
	}

	created := 0
	for _, res := range results {
		if res.Success {
			created++
		}
	}
	log.Printf("[CreateCodes] created=%d of %d", created, len(results))

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(results))
}

func (h *ReferralHandler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	var req models.RedeemCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"code": "Code is required",
		}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.referrals.Redeem(ctx, req.Code); err != nil {
		switch err {
		case services.ErrCodeNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Invalid referral code"))
		case services.ErrCodeUsed:
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Referral code already used"))
		default:
			log.Printf("[RedeemCode] error=%v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to redeem code"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Code redeemed"}))
}
