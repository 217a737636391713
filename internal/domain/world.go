// Package domain contains the core types shared across the worlds album server.
package domain

import "time"

// MaxWorldIDLength bounds world IDs taken from folder names.
// VRChat world IDs ("wrld_" + UUID) are 41 characters.
const MaxWorldIDLength = 42

// World is one catalog entry, corresponding to one folder under the scan root.
type World struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// LastFolderModifiedAt is the scanner's watermark: the folder mtime up to
	// which additions and removals are known fully reconciled. It must not
	// advance while queued conversions for this world are outstanding.
	LastFolderModifiedAt time.Time `json:"last_folder_modified_at"`
}

// WorldMetadata is the snapshot fetched from the remote worlds API.
// It is replaced wholesale on every successful refresh.
type WorldMetadata struct {
	WorldID     string    `json:"world_id"`
	DisplayName string    `json:"display_name"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	ImageURL    string    `json:"image_url"`
	Capacity    int       `json:"capacity"`
	Visits      int       `json:"visits"`
	Favorites   int       `json:"favorites"`
	Heat        int       `json:"heat"`
	Popularity  int       `json:"popularity"`
	Tags        []string  `json:"tags,omitempty"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// IsFresh reports whether the snapshot is still within its TTL at the given time.
func (m *WorldMetadata) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(m.RefreshedAt) < ttl
}

// WorldImage records one converted source image. Both renditions are on disk
// by the time a record exists.
type WorldImage struct {
	WorldID  string `json:"world_id"`
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// WorldDescription is optional free text attached to a world, at most one per world.
type WorldDescription struct {
	WorldID string `json:"world_id"`
	Text    string `json:"text"`
}
