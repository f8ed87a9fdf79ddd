package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/services"
)

type AuthHandler struct {
	accounts      services.AccountService
	profiles      services.ProfileService
	verifier      *services.FirebaseVerifier
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthHandler(accounts services.AccountService, profiles services.ProfileService, verifier *services.FirebaseVerifier, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		profiles:      profiles,
		verifier:      verifier,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	account, err := h.accounts.Register(ctx, req.Email, req.Password)
	if err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email is already in use"))
			return
		}
		log.Printf("[Register] account error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create account"))
		return
	}

	prof := models.Profile{
		UserID:   account.ID,
		FullName: strings.TrimSpace(req.FullName),
		Username: req.Username,
		Email:    account.Email,
	}
	if err := h.profiles.Create(ctx, &prof); err != nil {
		// The account would be orphaned without a profile; undo it.
		if derr := h.accounts.Delete(ctx, account.ID); derr != nil {
			log.Printf("[Register] orphaned account %s: %v", account.ID, derr)
		}
		if err == services.ErrUsernameTaken {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Username is already taken"))
			return
		}
		log.Printf("[Register] profile error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create account"))
		return
	}

	token, err := h.generateToken(account.ID, account.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	log.Printf("[Register] user=%s username=%s", account.ID, prof.Username)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.AuthResponse{
		Token:   token,
		Profile: *viewProfile(&prof),
	}))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	account, err := h.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if err == services.ErrAccountNotFound || err == services.ErrInvalidPassword {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid email or password"))
			return
		}
		log.Printf("[Login] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	prof, err := h.profiles.GetByUserID(ctx, account.ID)
	if err != nil {
		log.Printf("[Login] user=%s profile error=%v", account.ID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	token, err := h.generateToken(account.ID, account.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Token:   token,
		Profile: *viewProfile(prof),
	}))
}

// GoogleSignIn exchanges a Firebase ID token for a session. First sign-in
// creates an account and a profile with a handle derived from the Google
// display name or email prefix.
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Google sign-in is not configured"))
		return
	}

	var req models.GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ident, err := h.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		log.Printf("[GoogleSignIn] verify error=%v", err)
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid Google sign-in token"))
		return
	}

	account, _, err := h.accounts.EnsureFederated(ctx, ident.UID, ident.Email)
	if err != nil {
		log.Printf("[GoogleSignIn] account error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to sign in"))
		return
	}

	prof, err := h.profiles.GetByUserID(ctx, account.ID)
	if err == services.ErrProfileNotFound {
		prof, err = h.createFederatedProfile(ctx, account, ident)
	}
	if err != nil {
		log.Printf("[GoogleSignIn] user=%s profile error=%v", account.ID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to sign in"))
		return
	}

	token, err := h.generateToken(account.ID, account.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Token:   token,
		Profile: *viewProfile(prof),
	}))
}

func (h *AuthHandler) createFederatedProfile(ctx context.Context, account *models.Account, ident *services.FederatedIdentity) (*models.Profile, error) {
	fullName := strings.TrimSpace(ident.Name)
	if fullName == "" {
		fullName = services.DeriveUsername("", ident.Email)
	}

	username := services.DeriveUsername(ident.Name, ident.Email)
	for attempt := 0; ; attempt++ {
		prof := models.Profile{
			UserID:   account.ID,
			FullName: fullName,
			Username: username,
			Email:    account.Email,
			PhotoURL: ident.PhotoURL,
		}
		err := h.profiles.Create(ctx, &prof)
		if err == nil {
			return &prof, nil
		}
		if err != services.ErrUsernameTaken || attempt >= 5 {
			return nil, err
		}
		username = services.SuffixedUsername(services.DeriveUsername(ident.Name, ident.Email))
	}
}

// UsernameAvailable backs the live availability check on the signup form.
func (h *AuthHandler) UsernameAvailable(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("username")))
	if !models.ValidUsername(username) {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
			"username": "Username must be at least 3 characters, lowercase letters and numbers only",
		}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	available, err := h.profiles.UsernameAvailable(ctx, username)
	if err != nil {
		log.Printf("[UsernameAvailable] username=%s error=%v", username, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to check username"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.UsernameAvailabilityResponse{
		Username:  username,
		Available: available,
	}))
}

func (h *AuthHandler) generateToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(h.jwtExpiration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
