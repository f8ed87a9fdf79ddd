package models

import (
	"net/mail"
	"strings"
	"time"
)

// Account is an authentication record. Password accounts carry a bcrypt hash;
// federated (Google) accounts have none and are keyed by the Firebase UID.
type Account struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash,omitempty"`
	Provider     string    `json:"provider" bson:"provider"` // "password" or "google"
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleSignInRequest carries a Firebase ID token minted by the Google
// sign-in popup on the client.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}

type AuthResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.FullName) == "" {
		errors["fullName"] = "Full name is required"
	}
	if r.Username == "" {
		errors["username"] = "Username is required"
	} else if !ValidUsername(r.Username) {
		errors["username"] = "Username must be at least 3 characters, lowercase letters and numbers only"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errors["email"] = "Email is invalid"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}
