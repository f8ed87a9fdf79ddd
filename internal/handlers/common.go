package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/officialyou/backend/internal/links"
	"github.com/officialyou/backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// viewProfile prepares a profile for a response: the link list is normalized
// at read time and the legacy fields are never surfaced.
func viewProfile(prof *models.Profile) *models.Profile {
	out := *prof
	out.Links = links.Normalize(prof)
	out.SocialLinks = nil
	out.CustomLinks = nil
	return &out
}
