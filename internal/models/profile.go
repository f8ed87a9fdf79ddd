package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Profile is the user-editable page data stored in Mongo and keyed by account ID.
// JSON field names match the document shape the web client has always written
// (camelCase, Firestore heritage).
type Profile struct {
	UserID   string `json:"user_id" bson:"user_id"`
	FullName string `json:"fullName" bson:"full_name"`
	Username string `json:"username" bson:"username"`
	Motto    string `json:"motto,omitempty" bson:"motto,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	PhotoURL string `json:"photoURL,omitempty" bson:"photo_url,omitempty"`

	// Links is the current canonical shape. When empty, the legacy two-field
	// shape below may still be populated on old documents; readers go through
	// links.Normalize and never touch the legacy fields directly.
	Links       []LinkEntry       `json:"links,omitempty" bson:"links,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty" bson:"social_links,omitempty"`
	CustomLinks []CustomLink      `json:"customLinks,omitempty" bson:"custom_links,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// UpdateProfileRequest carries a partial profile edit. Nil fields are left
// untouched; the username is fixed at signup and cannot be changed here.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Motto    *string `json:"motto"`
	Location *string `json:"location"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

const MaxMottoLength = 100

var usernameRe = regexp.MustCompile(`^[a-z0-9]{3,}$`)

// ValidUsername reports whether u is a claimable handle: lowercase
// alphanumeric, at least 3 characters.
func ValidUsername(u string) bool {
	return usernameRe.MatchString(u)
}

func (r *UpdateProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FullName != nil && strings.TrimSpace(*r.FullName) == "" {
		errors["fullName"] = "Full name is required"
	}
	if r.Motto != nil && utf8.RuneCountInString(*r.Motto) > MaxMottoLength {
		errors["motto"] = "Motto must be 100 characters or less"
	}

	return errors
}
