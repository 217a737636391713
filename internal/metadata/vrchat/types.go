package vrchat

import (
	"time"

	"github.com/worldsalbum/worlds-server/internal/domain"
)

// worldResponse is the wire format of GET /worlds/{worldId}.
// Only the fields the catalog keeps are mapped.
type worldResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	AuthorID          string   `json:"authorId"`
	AuthorName        string   `json:"authorName"`
	ImageURL          string   `json:"imageUrl"`
	ThumbnailImageURL string   `json:"thumbnailImageUrl"`
	Capacity          int      `json:"capacity"`
	Visits            int      `json:"visits"`
	Favorites         int      `json:"favorites"`
	Heat              int      `json:"heat"`
	Popularity        int      `json:"popularity"`
	Tags              []string `json:"tags"`
}

// toDomain converts the wire response into the catalog's metadata snapshot.
func (r *worldResponse) toDomain(refreshedAt time.Time) *domain.WorldMetadata {
	imageURL := r.ImageURL
	if imageURL == "" {
		imageURL = r.ThumbnailImageURL
	}

	return &domain.WorldMetadata{
		WorldID:     r.ID,
		DisplayName: r.Name,
		AuthorID:    r.AuthorID,
		AuthorName:  r.AuthorName,
		ImageURL:    imageURL,
		Capacity:    r.Capacity,
		Visits:      r.Visits,
		Favorites:   r.Favorites,
		Heat:        r.Heat,
		Popularity:  r.Popularity,
		Tags:        r.Tags,
		RefreshedAt: refreshedAt,
	}
}
