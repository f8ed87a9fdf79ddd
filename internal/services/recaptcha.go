package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RecaptchaVerifier gates the public waitlist form with a reCAPTCHA v2
// checkbox check against Google's siteverify API.
type RecaptchaVerifier struct {
	secret     string
	endpoint   string
	httpClient *http.Client
}

func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:   strings.TrimSpace(secret),
		endpoint: "https://www.google.com/recaptcha/api/siteverify",
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// Enabled reports whether a secret is configured. When it isn't, the waitlist
// form accepts submissions without a token.
func (v *RecaptchaVerifier) Enabled() bool {
	return v != nil && v.secret != ""
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a client token. The string result is the failure reason for
// logging; it is empty on success.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, string, error) {
	if !v.Enabled() {
		return false, "not_configured", nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return false, "missing_token", nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if ip := strings.TrimSpace(remoteIP); ip != "" {
		form.Set("remoteip", ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("siteverify http %d", resp.StatusCode)
	}

	var out siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, "", err
	}
	if out.Success {
		return true, "", nil
	}
	if len(out.ErrorCodes) > 0 {
		return false, strings.Join(out.ErrorCodes, ","), nil
	}
	return false, "rejected", nil
}
