// Package links holds the link-list logic shared by the edit and public
// surfaces: normalizing the three historical document shapes into one ordered
// list, and the in-memory edit operations applied before a save.
package links

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/officialyou/backend/internal/models"
)

var (
	ErrTitleRequired   = errors.New("link title is required")
	ErrURLRequired     = errors.New("link URL is required")
	ErrUnknownPlatform = errors.New("unknown social platform")
)

// Platforms is the closed set of supported social platforms, in the order
// legacy socialLinks entries are emitted during normalization.
var Platforms = []string{
	"linkedin",
	"facebook",
	"instagram",
	"tiktok",
	"lemon8",
	"pinterest",
	"youtube",
	"bluesky",
	"twitter",
	"mastodon",
}

var platformLabels = map[string]string{
	"linkedin":  "LinkedIn",
	"facebook":  "Facebook",
	"instagram": "Instagram",
	"tiktok":    "TikTok",
	"lemon8":    "Lemon8",
	"pinterest": "Pinterest",
	"youtube":   "YouTube",
	"bluesky":   "Bluesky",
	"twitter":   "Twitter",
	"mastodon":  "Mastodon",
}

// PlatformLabel returns the display label for a platform key, falling back to
// the raw key for anything unrecognized.
func PlatformLabel(platform string) string {
	if label, ok := platformLabels[platform]; ok {
		return label
	}
	return platform
}

// KnownPlatform reports whether the key is in the supported set.
func KnownPlatform(platform string) bool {
	_, ok := platformLabels[platform]
	return ok
}

func socialID(platform string) string {
	return "social-" + platform
}

// Normalize produces the ordered link list for a profile regardless of which
// historical shape the document is in. A non-empty Links field is
// authoritative and returned verbatim; legacy fields are never merged into
// it. Otherwise the list is synthesized from socialLinks (fixed platform
// order, empty values skipped) followed by customLinks (source order
// preserved). Pure: nothing is written back, so legacy documents re-synthesize
// on every read.
func Normalize(p *models.Profile) []models.LinkEntry {
	if len(p.Links) > 0 {
		return p.Links
	}

	var out []models.LinkEntry

	for _, platform := range Platforms {
		url := strings.TrimSpace(p.SocialLinks[platform])
		if url == "" {
			continue
		}
		out = append(out, models.LinkEntry{
			ID:       socialID(platform),
			Type:     models.LinkTypeSocial,
			Platform: platform,
			Title:    PlatformLabel(platform),
			URL:      url,
		})
	}

	for _, cl := range p.CustomLinks {
		id := legacyID(cl.ID)
		if id == "" {
			id = uuid.New().String()
		}
		out = append(out, models.LinkEntry{
			ID:    id,
			Type:  models.LinkTypeCustom,
			Title: cl.Title,
			URL:   cl.URL,
		})
	}

	return out
}

// legacyID renders an old customLinks id (written as a number or a string by
// older clients) as a string key.
func legacyID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return fmt.Sprintf("%d", id)
	case int32:
		return fmt.Sprintf("%d", id)
	case int64:
		return fmt.Sprintf("%d", id)
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprintf("%v", id)
	default:
		return fmt.Sprintf("%v", id)
	}
}

// AddCustom appends a new custom link. Title and URL must be non-empty after
// trimming; a URL without a scheme gets an https:// prefix at creation time.
func AddCustom(list []models.LinkEntry, title, url string) ([]models.LinkEntry, error) {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" {
		return list, ErrTitleRequired
	}
	if url == "" {
		return list, ErrURLRequired
	}

	if !strings.Contains(url, "://") {
		url = "https://" + url
	}

	return append(list, models.LinkEntry{
		ID:    uuid.New().String(),
		Type:  models.LinkTypeCustom,
		Title: title,
		URL:   url,
	}), nil
}

// UpsertSocial sets, replaces, or removes the entry for a platform. An empty
// trimmed URL removes an existing entry (no-op when absent); a non-empty URL
// replaces an existing entry in place, keeping its position, or appends a new
// one at the end.
func UpsertSocial(list []models.LinkEntry, platform, url string) ([]models.LinkEntry, error) {
	if !KnownPlatform(platform) {
		return list, ErrUnknownPlatform
	}

	url = strings.TrimSpace(url)
	id := socialID(platform)

	for i, e := range list {
		if e.Type == models.LinkTypeSocial && e.Platform == platform {
			if url == "" {
				return append(list[:i:i], list[i+1:]...), nil
			}
			out := make([]models.LinkEntry, len(list))
			copy(out, list)
			out[i].URL = url
			return out, nil
		}
	}

	if url == "" {
		return list, nil
	}

	return append(list, models.LinkEntry{
		ID:       id,
		Type:     models.LinkTypeSocial,
		Platform: platform,
		Title:    PlatformLabel(platform),
		URL:      url,
	}), nil
}

// Delete removes the entry with the given id. No-op when absent.
func Delete(list []models.LinkEntry, id string) []models.LinkEntry {
	for i, e := range list {
		if e.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// ValidateList checks the invariants of a client-supplied full link list:
// unique non-empty ids, known types, platform present iff social, non-empty
// URLs.
func ValidateList(list []models.LinkEntry) map[string]string {
	errors := make(map[string]string)
	seen := make(map[string]bool, len(list))

	for i, e := range list {
		field := fmt.Sprintf("links[%d]", i)
		if e.ID == "" {
			errors[field+".id"] = "Link id is required"
		} else if seen[e.ID] {
			errors[field+".id"] = "Duplicate link id"
		}
		seen[e.ID] = true

		switch e.Type {
		case models.LinkTypeSocial:
			if !KnownPlatform(e.Platform) {
				errors[field+".platform"] = "Unknown social platform"
			}
		case models.LinkTypeCustom:
			if e.Platform != "" {
				errors[field+".platform"] = "Custom links cannot have a platform"
			}
		default:
			errors[field+".type"] = "Link type must be social or custom"
		}

		if strings.TrimSpace(e.URL) == "" {
			errors[field+".url"] = "Link URL is required"
		}
	}

	return errors
}

// MoveDirection is the adjacent-swap reorder direction.
type MoveDirection string

const (
	MoveUp   MoveDirection = "up"   // earlier in the list
	MoveDown MoveDirection = "down" // later in the list
)

// Move swaps the entry at index with its immediate neighbor in the given
// direction. Moving the first entry up or the last entry down is a no-op, as
// is an out-of-range index.
func Move(list []models.LinkEntry, index int, dir MoveDirection) []models.LinkEntry {
	if index < 0 || index >= len(list) {
		return list
	}

	j := index
	switch dir {
	case MoveUp:
		j = index - 1
	case MoveDown:
		j = index + 1
	default:
		return list
	}
	if j < 0 || j >= len(list) {
		return list
	}

	out := make([]models.LinkEntry, len(list))
	copy(out, list)
	out[index], out[j] = out[j], out[index]
	return out
}
