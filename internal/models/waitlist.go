package models

import (
	"net/mail"
	"strings"
	"time"
)

type WaitlistEntry struct {
	ID          string    `json:"id" bson:"_id"`
	FirstName   string    `json:"firstName" bson:"first_name"`
	Email       string    `json:"email" bson:"email"`
	Reason      string    `json:"reason,omitempty" bson:"reason,omitempty"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submitted_at"`
}

type JoinWaitlistRequest struct {
	FirstName      string `json:"firstName"`
	Email          string `json:"email"`
	Reason         string `json:"reason"`
	RecaptchaToken string `json:"recaptchaToken,omitempty"`
}

func (r *JoinWaitlistRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.FirstName) == "" {
		errors["firstName"] = "First name is required"
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		errors["email"] = "Email is required"
	} else if len(email) > 254 {
		errors["email"] = "Email is too long"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errors["email"] = "Email is invalid"
	}

	return errors
}
