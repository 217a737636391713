// Package cursor implements the opaque pagination continuation token.
//
// A token is "<RFC3339Nano UTC timestamp>|<worldID>" passed through URL-safe
// base64, so callers can treat it as an opaque string.
package cursor

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed is returned for tokens that cannot be decoded. Callers must not
// guess a world from a malformed token.
var ErrMalformed = fmt.Errorf("malformed cursor")

const separator = "|"

// Encode builds a continuation token from the last item of a page.
// World IDs must not contain the separator; folder-derived IDs never do, but
// the codec rejects them rather than producing an ambiguous token.
func Encode(t time.Time, worldID string) (string, error) {
	if worldID == "" {
		return "", fmt.Errorf("encode cursor: empty world id")
	}
	if strings.Contains(worldID, separator) {
		return "", fmt.Errorf("encode cursor: world id %q contains separator", worldID)
	}

	raw := t.UTC().Format(time.RFC3339Nano) + separator + worldID
	return base64.URLEncoding.EncodeToString([]byte(raw)), nil
}

// Decode reverses Encode. The timestamp round-trips exactly, including
// sub-second precision.
func Decode(token string) (time.Time, string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Split on the first separator only.
	ts, worldID, found := strings.Cut(string(raw), separator)
	if !found || worldID == "" {
		return time.Time{}, "", fmt.Errorf("%w: missing separator", ErrMalformed)
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: bad timestamp: %v", ErrMalformed, err)
	}

	return t.UTC(), worldID, nil
}
