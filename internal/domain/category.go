package domain

import "strings"

// Category is one entry in the global category registry. Worlds link to
// categories many-to-many; names are unique case-insensitively.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NormalizeCategoryName trims a requested category name. The empty result
// means the name should be discarded.
func NormalizeCategoryName(name string) string {
	return strings.TrimSpace(name)
}

// CategoryNameKey returns the case-insensitive uniqueness key for a name.
func CategoryNameKey(name string) string {
	return strings.ToLower(NormalizeCategoryName(name))
}
