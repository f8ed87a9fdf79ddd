package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officialyou/backend/internal/middleware"
	"github.com/officialyou/backend/internal/models"
	"github.com/officialyou/backend/internal/services"
)

const testJWTSecret = "test-secret"

// newTestRouter wires the API against the local file-backed services, the
// same shape the server mounts in production.
func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	dir := t.TempDir()

	profiles, err := services.NewLocalProfileService(dir)
	require.NoError(t, err)
	accounts, err := services.NewLocalAccountService(dir)
	require.NoError(t, err)
	referrals, err := services.NewLocalReferralService(dir)
	require.NoError(t, err)
	waitlist, err := services.NewLocalWaitlistService(dir)
	require.NoError(t, err)
	avatars, err := services.NewLocalAvatarService(dir)
	require.NoError(t, err)

	mailer := services.NewSendGridMailer("", "", "")
	recaptcha := services.NewRecaptchaVerifier("")

	authHandler := NewAuthHandler(accounts, profiles, nil, testJWTSecret, time.Hour)
	photoHandler := NewPhotoHandler(avatars, profiles, 5)
	profileHandler := NewProfileHandler(profiles)
	linksHandler := NewLinksHandler(profiles)
	accountHandler := NewAccountHandler(accounts, profiles, avatars)
	referralHandler := NewReferralHandler(referrals)
	waitlistHandler := NewWaitlistHandler(waitlist, mailer, recaptcha)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/google", authHandler.GoogleSignIn)
		r.Get("/auth/username-available", authHandler.UsernameAvailable)
		r.Post("/waitlist", waitlistHandler.Join)
		r.Post("/referral/redeem", referralHandler.RedeemCode)
		r.Get("/profiles/{username}", profileHandler.GetPublicProfile)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(testJWTSecret))
			r.Route("/me", func(r chi.Router) {
				r.Get("/", profileHandler.GetMe)
				r.Put("/", profileHandler.UpdateMe)
				r.Delete("/", accountHandler.DeleteAccount)
				r.Post("/photo", photoHandler.Upload)
				r.Route("/links", func(r chi.Router) {
					r.Put("/", linksHandler.SetLinks)
					r.Post("/custom", linksHandler.AddCustomLink)
					r.Put("/social/{platform}", linksHandler.UpsertSocialLink)
					r.Delete("/{linkId}", linksHandler.DeleteLink)
					r.Post("/{index}/move", linksHandler.MoveLink)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminToken("admin-token"))
			r.Post("/admin/referral-codes", referralHandler.CreateCodes)
		})
	})
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success, "response body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func register(t *testing.T, router chi.Router, username, email string) (string, models.Profile) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		FullName: "Jenna Ortiz",
		Username: username,
		Email:    email,
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var auth models.AuthResponse
	decodeData(t, rec, &auth)
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.Profile
}

func TestRegisterLoginAndPublicProfile(t *testing.T) {
	router := newTestRouter(t)

	token, prof := register(t, router, "jenna", "jenna@example.com")
	assert.Equal(t, "jenna", prof.Username)
	assert.Equal(t, "Jenna Ortiz", prof.FullName)

	// Duplicate username is a conflict even from a different email.
	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		FullName: "Other",
		Username: "JENNA",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Duplicate email too.
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		FullName: "Other",
		Username: "other",
		Email:    "jenna@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "jenna@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "jenna@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/profiles/jenna", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var public models.Profile
	decodeData(t, rec, &public)
	assert.Equal(t, "Jenna Ortiz", public.FullName)

	rec = doJSON(t, router, http.MethodGet, "/api/profiles/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsernameAvailability(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "jenna", "jenna@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/auth/username-available?username=jenna", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var avail models.UsernameAvailabilityResponse
	decodeData(t, rec, &avail)
	assert.False(t, avail.Available)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/username-available?username=fresh", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &avail)
	assert.True(t, avail.Available)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/username-available?username=No!", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	router := newTestRouter(t)
	token, _ := register(t, router, "jenna", "jenna@example.com")

	motto := "link in bio"
	location := "Austin, TX"
	rec := doJSON(t, router, http.MethodPut, "/api/me", token, models.UpdateProfileRequest{
		Motto:    &motto,
		Location: &location,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var prof models.Profile
	decodeData(t, rec, &prof)
	assert.Equal(t, "link in bio", prof.Motto)
	assert.Equal(t, "Austin, TX", prof.Location)
	assert.Equal(t, "Jenna Ortiz", prof.FullName)

	blank := " "
	rec = doJSON(t, router, http.MethodPut, "/api/me", token, models.UpdateProfileRequest{FullName: &blank})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkEditingFlow(t *testing.T) {
	router := newTestRouter(t)
	token, _ := register(t, router, "jenna", "jenna@example.com")

	// Add two custom links.
	rec := doJSON(t, router, http.MethodPost, "/api/me/links/custom", token, models.AddCustomLinkRequest{
		Title: "Blog",
		URL:   "blog.example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/me/links/custom", token, models.AddCustomLinkRequest{
		Title: "Shop",
		URL:   "https://shop.example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var prof models.Profile
	decodeData(t, rec, &prof)
	require.Len(t, prof.Links, 2)
	assert.Equal(t, "https://blog.example.com", prof.Links[0].URL)
	assert.Equal(t, "Shop", prof.Links[1].Title)

	// Set a social link; it appends after the customs.
	rec = doJSON(t, router, http.MethodPut, "/api/me/links/social/instagram", token, models.UpsertSocialLinkRequest{
		URL: "https://instagram.com/jenna",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &prof)
	require.Len(t, prof.Links, 3)
	assert.Equal(t, models.LinkTypeSocial, prof.Links[2].Type)
	assert.Equal(t, "instagram", prof.Links[2].Platform)

	rec = doJSON(t, router, http.MethodPut, "/api/me/links/social/myspace", token, models.UpsertSocialLinkRequest{
		URL: "https://myspace.com/jenna",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Move the social link up one slot.
	rec = doJSON(t, router, http.MethodPost, "/api/me/links/2/move", token, models.MoveLinkRequest{Direction: "up"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &prof)
	assert.Equal(t, "instagram", prof.Links[1].Platform)

	// Boundary move is accepted and changes nothing.
	rec = doJSON(t, router, http.MethodPost, "/api/me/links/0/move", token, models.MoveLinkRequest{Direction: "up"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &prof)
	assert.Equal(t, "Blog", prof.Links[0].Title)

	rec = doJSON(t, router, http.MethodPost, "/api/me/links/0/move", token, models.MoveLinkRequest{Direction: "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete by id.
	deleteID := prof.Links[0].ID
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/me/links/%s", deleteID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &prof)
	require.Len(t, prof.Links, 2)
	assert.NotEqual(t, deleteID, prof.Links[0].ID)

	// Replace the whole list.
	rec = doJSON(t, router, http.MethodPut, "/api/me/links", token, models.SetLinksRequest{
		Links: []models.LinkEntry{
			{ID: "social-twitter", Type: models.LinkTypeSocial, Platform: "twitter", URL: "https://twitter.com/jenna"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &prof)
	require.Len(t, prof.Links, 1)
	assert.Equal(t, "twitter", prof.Links[0].Platform)

	// Rejected list leaves state alone.
	rec = doJSON(t, router, http.MethodPut, "/api/me/links", token, models.SetLinksRequest{
		Links: []models.LinkEntry{
			{ID: "dup", Type: models.LinkTypeCustom, Title: "A", URL: "https://a.example.com"},
			{ID: "dup", Type: models.LinkTypeCustom, Title: "B", URL: "https://b.example.com"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCustomLinkValidation(t *testing.T) {
	router := newTestRouter(t)
	token, _ := register(t, router, "jenna", "jenna@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/me/links/custom", token, models.AddCustomLinkRequest{URL: "https://a.example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/me/links/custom", token, models.AddCustomLinkRequest{Title: "A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccountFreesUsernameAndEmail(t *testing.T) {
	router := newTestRouter(t)
	token, _ := register(t, router, "jenna", "jenna@example.com")

	rec := doJSON(t, router, http.MethodDelete, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/profiles/jenna", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", models.LoginRequest{
		Email:    "jenna@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Handle and email can be claimed again.
	register(t, router, "jenna", "jenna@example.com")
}

func TestPhotoUpload(t *testing.T) {
	router := newTestRouter(t)
	token, _ := register(t, router, "jenna", "jenna@example.com")

	upload := func(contentType string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="avatar.png"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/me/photo", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("image/png")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp models.PhotoUploadResponse
	decodeData(t, rec, &resp)
	assert.Equal(t, "/uploads/profile-pictures/", resp.PhotoURL[:len("/uploads/profile-pictures/")])

	// The URL lands on the profile.
	meRec := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, meRec.Code)
	var prof models.Profile
	decodeData(t, meRec, &prof)
	assert.Equal(t, resp.PhotoURL, prof.PhotoURL)

	rec = upload("application/pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleSignInUnconfigured(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/google", "", models.GoogleSignInRequest{IDToken: "whatever"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWaitlist(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/waitlist", "", models.JoinWaitlistRequest{
		FirstName: "Jenna",
		Email:     "jenna@example.com",
		Reason:    "creator page",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var entry models.WaitlistEntry
	decodeData(t, rec, &entry)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Jenna", entry.FirstName)

	rec = doJSON(t, router, http.MethodPost, "/api/waitlist", "", models.JoinWaitlistRequest{Email: "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeCaptcha struct {
	accept string
}

func (f *fakeCaptcha) Enabled() bool { return true }

func (f *fakeCaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, string, error) {
	if token == f.accept {
		return true, "", nil
	}
	return false, "invalid-input-response", nil
}

func TestWaitlistRecaptchaGate(t *testing.T) {
	waitlist, err := services.NewLocalWaitlistService(t.TempDir())
	require.NoError(t, err)
	mailer := services.NewSendGridMailer("", "", "")
	h := NewWaitlistHandler(waitlist, mailer, &fakeCaptcha{accept: "good-token"})

	post := func(body models.JoinWaitlistRequest) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, "/api/waitlist", &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.Join(rec, req)
		return rec
	}

	rec := post(models.JoinWaitlistRequest{FirstName: "Jenna", Email: "jenna@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = post(models.JoinWaitlistRequest{FirstName: "Jenna", Email: "jenna@example.com", RecaptchaToken: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = post(models.JoinWaitlistRequest{FirstName: "Jenna", Email: "jenna@example.com", RecaptchaToken: "good-token"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestReferralAdminAndRedeem(t *testing.T) {
	router := newTestRouter(t)

	// Admin surface requires the shared token.
	rec := doJSON(t, router, http.MethodPost, "/api/admin/referral-codes", "", models.CreateCodesRequest{Codes: "ALPHA"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/referral-codes", bytes.NewBufferString(`{"codes":"alpha\nbeta"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", "admin-token")
	adminRec := httptest.NewRecorder()
	router.ServeHTTP(adminRec, req)
	require.Equal(t, http.StatusCreated, adminRec.Code, adminRec.Body.String())

	var results []models.CodeResult
	decodeData(t, adminRec, &results)
	require.Len(t, results, 2)
	assert.Equal(t, "ALPHA", results[0].Code)
	assert.True(t, results[0].Success)

	rec = doJSON(t, router, http.MethodPost, "/api/referral/redeem", "", models.RedeemCodeRequest{Code: "alpha"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/referral/redeem", "", models.RedeemCodeRequest{Code: "ALPHA"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/referral/redeem", "", models.RedeemCodeRequest{Code: "NOPE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
