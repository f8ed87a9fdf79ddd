package services

import (
	"fmt"
	"math/rand"
	"strings"
)

// DeriveUsername suggests a handle for a federated sign-in that has no chosen
// username yet: display name if present, else the email local part, lowercased
// with everything but letters and digits stripped.
func DeriveUsername(displayName, email string) string {
	base := strings.TrimSpace(displayName)
	if base == "" {
		base = email
		if at := strings.Index(base, "@"); at >= 0 {
			base = base[:at]
		}
	}

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) < 3 {
		out = "user" + out
	}
	return out
}

// SuffixedUsername appends a random 0-999 suffix, used when the derived
// handle is already taken.
func SuffixedUsername(base string) string {
	return fmt.Sprintf("%s%d", base, rand.Intn(1000))
}
