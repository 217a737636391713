// Package id generates prefixed unique identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed NanoID, e.g. "cat-V1StGXR8_Z5jdHi6B-myT".
// NanoIDs are URL-safe and compact (21 characters), which keeps store keys
// short. Returns an error only when secure randomness is unavailable.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}
