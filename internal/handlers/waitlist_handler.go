package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/services"
)

// CaptchaVerifier is what the waitlist form needs from a captcha backend.
// Satisfied by services.RecaptchaVerifier.
type CaptchaVerifier interface {
	Enabled() bool
	Verify(ctx context.Context, token, remoteIP string) (bool, string, error)
}

type WaitlistHandler struct {
	waitlist  services.WaitlistService
	mailer    *services.SendGridMailer
	recaptcha CaptchaVerifier
}

func NewWaitlistHandler(waitlist services.WaitlistService, mailer *services.SendGridMailer, recaptcha CaptchaVerifier) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist, mailer: mailer, recaptcha: recaptcha}
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	// The form is public, so gate it behind reCAPTCHA when a secret is set.
	if h.recaptcha != nil && h.recaptcha.Enabled() {
		token := strings.TrimSpace(req.RecaptchaToken)
		if token == "" {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
				"recaptchaToken": "reCAPTCHA token is required",
			}))
			return
		}
		remoteIP := clientIP(r)
		ok, reason, err := h.recaptcha.Verify(ctx, token, remoteIP)
		if err != nil {
			log.Printf("[Waitlist] recaptcha error ip=%s err=%v", remoteIP, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to verify reCAPTCHA"))
			return
		}
		if !ok {
			log.Printf("[Waitlist] recaptcha failed ip=%s reason=%s", remoteIP, reason)
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("reCAPTCHA verification failed"))
			return
		}
	}

	entry, err := h.waitlist.Add(ctx, &req)
	if err != nil {
		log.Printf("[Waitlist] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to join waitlist"))
		return
	}

	// Notification is best effort; the signup is already recorded.
	if h.mailer.Configured() {
		if err := h.mailer.SendWaitlistNotification(ctx, entry.FirstName, entry.Email, entry.Reason); err != nil {
			log.Printf("[Waitlist] notify error=%v", err)
		}
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(entry))
}

func clientIP(r *http.Request) string {
	// Cloud Run typically provides X-Forwarded-For. Use first IP if present.
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}
	return ""
}
