package api

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/worldsalbum/worlds-server/internal/domain"
	"github.com/worldsalbum/worlds-server/internal/paths"
	"github.com/worldsalbum/worlds-server/internal/service"
)

func (s *Server) registerWorldRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listWorlds",
		Method:      http.MethodGet,
		Path:        "/api/v1/worlds",
		Summary:     "List worlds",
		Description: "Returns a page of worlds ordered newest-first",
		Tags:        []string{"Worlds"},
	}, s.handleListWorlds)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWorld",
		Method:      http.MethodGet,
		Path:        "/api/v1/worlds/{id}",
		Summary:     "Get world",
		Description: "Returns a world by ID",
		Tags:        []string{"Worlds"},
	}, s.handleGetWorld)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWorldMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/worlds/{id}/metadata",
		Summary:     "Fetch live metadata",
		Description: "Fetches the current remote snapshot, bypassing the cache",
		Tags:        []string{"Worlds"},
	}, s.handleGetWorldMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "setWorldCategories",
		Method:      http.MethodPut,
		Path:        "/api/v1/worlds/{id}/categories",
		Summary:     "Set world categories",
		Description: "Replaces the category assignment of a world",
		Tags:        []string{"Worlds"},
	}, s.handleSetWorldCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "setWorldDescription",
		Method:      http.MethodPut,
		Path:        "/api/v1/worlds/{id}/description",
		Summary:     "Set world description",
		Description: "Replaces the user-authored description of a world",
		Tags:        []string{"Worlds"},
	}, s.handleSetWorldDescription)
}

// === DTOs ===

type WorldImageResponse struct {
	Filename string `json:"filename" doc:"Source filename"`
	Width    int    `json:"width" doc:"Source width in pixels"`
	Height   int    `json:"height" doc:"Source height in pixels"`
	ThumbURL string `json:"thumb_url" doc:"Thumbnail rendition URL"`
	ViewURL  string `json:"view_url" doc:"View rendition URL"`
}

type WorldMetadataResponse struct {
	DisplayName string    `json:"display_name" doc:"World name on the remote platform"`
	AuthorID    string    `json:"author_id,omitempty" doc:"Author ID"`
	AuthorName  string    `json:"author_name,omitempty" doc:"Author display name"`
	ImageURL    string    `json:"image_url,omitempty" doc:"Remote preview image URL"`
	Capacity    int       `json:"capacity" doc:"Instance capacity"`
	Visits      int       `json:"visits" doc:"Total visits"`
	Favorites   int       `json:"favorites" doc:"Favorite count"`
	Heat        int       `json:"heat" doc:"Heat rating"`
	Popularity  int       `json:"popularity" doc:"Popularity rating"`
	Tags        []string  `json:"tags,omitempty" doc:"Remote tags"`
	RefreshedAt time.Time `json:"refreshed_at" doc:"When this snapshot was fetched"`
}

type CategoryResponse struct {
	ID   string `json:"id" doc:"Category ID"`
	Name string `json:"name" doc:"Category name"`
}

type WorldResponse struct {
	ID          string                 `json:"id" doc:"World ID"`
	CreatedAt   time.Time              `json:"created_at" doc:"When the world entered the catalog"`
	Description string                 `json:"description,omitempty" doc:"User-authored description"`
	Metadata    *WorldMetadataResponse `json:"metadata,omitempty" doc:"Remote metadata, absent if never fetched"`
	Categories  []CategoryResponse     `json:"categories" doc:"Assigned categories"`
	Images      []WorldImageResponse   `json:"images" doc:"Converted images"`
}

type ListWorldsInput struct {
	Cursor   string `query:"cursor" doc:"Opaque cursor from a previous page"`
	PageSize int    `query:"page_size" doc:"Page size, 1-100, default 10"`
}

type ListWorldsResponse struct {
	Worlds     []WorldResponse `json:"worlds" doc:"Page of worlds, newest first"`
	NextCursor string          `json:"next_cursor,omitempty" doc:"Cursor for the next page, absent on the last page"`
}

type ListWorldsOutput struct {
	Body ListWorldsResponse
}

type GetWorldInput struct {
	ID string `path:"id" doc:"World ID"`
}

type WorldOutput struct {
	Body WorldResponse
}

type WorldMetadataOutput struct {
	Body WorldMetadataResponse
}

type SetWorldCategoriesInput struct {
	ID   string `path:"id" doc:"World ID"`
	Body struct {
		Categories []string `json:"categories" doc:"Category names, replaces the current assignment"`
	}
}

type CategoriesOutput struct {
	Body struct {
		Categories []CategoryResponse `json:"categories" doc:"Categories after the update"`
	}
}

type SetWorldDescriptionInput struct {
	ID   string `path:"id" doc:"World ID"`
	Body struct {
		Description string `json:"description" doc:"New description, empty clears it"`
	}
}

// === Handlers ===

func (s *Server) handleListWorlds(ctx context.Context, input *ListWorldsInput) (*ListWorldsOutput, error) {
	page, err := s.worldService.ListWorlds(ctx, input.Cursor, input.PageSize)
	if err != nil {
		return nil, err
	}

	resp := ListWorldsResponse{
		Worlds:     make([]WorldResponse, len(page.Worlds)),
		NextCursor: page.NextCursor,
	}
	for i, detail := range page.Worlds {
		resp.Worlds[i] = mapWorldResponse(detail)
	}

	return &ListWorldsOutput{Body: resp}, nil
}

func (s *Server) handleGetWorld(ctx context.Context, input *GetWorldInput) (*WorldOutput, error) {
	detail, err := s.worldService.GetWorld(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &WorldOutput{Body: mapWorldResponse(detail)}, nil
}

func (s *Server) handleGetWorldMetadata(ctx context.Context, input *GetWorldInput) (*WorldMetadataOutput, error) {
	meta, err := s.worldService.FetchLiveMetadata(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &WorldMetadataOutput{Body: *mapMetadata(meta)}, nil
}

func (s *Server) handleSetWorldCategories(ctx context.Context, input *SetWorldCategoriesInput) (*CategoriesOutput, error) {
	cats, err := s.worldService.SetCategories(ctx, input.ID, input.Body.Categories)
	if err != nil {
		return nil, err
	}

	out := &CategoriesOutput{}
	out.Body.Categories = mapCategories(cats)
	return out, nil
}

func (s *Server) handleSetWorldDescription(ctx context.Context, input *SetWorldDescriptionInput) (*struct{}, error) {
	if err := s.worldService.SetDescription(ctx, input.ID, input.Body.Description); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

// === Mapping ===

func mapWorldResponse(detail *service.WorldDetail) WorldResponse {
	resp := WorldResponse{
		ID:          detail.World.ID,
		CreatedAt:   detail.World.CreatedAt,
		Description: detail.Description,
		Categories:  mapCategories(detail.Categories),
		Images:      make([]WorldImageResponse, len(detail.Images)),
	}

	if detail.Metadata != nil {
		resp.Metadata = mapMetadata(detail.Metadata)
	}

	for i, img := range detail.Images {
		resp.Images[i] = WorldImageResponse{
			Filename: img.Filename,
			Width:    img.Width,
			Height:   img.Height,
			ThumbURL: renditionURL("thumb", img),
			ViewURL:  renditionURL("view", img),
		}
	}

	return resp
}

func mapMetadata(meta *domain.WorldMetadata) *WorldMetadataResponse {
	return &WorldMetadataResponse{
		DisplayName: meta.DisplayName,
		AuthorID:    meta.AuthorID,
		AuthorName:  meta.AuthorName,
		ImageURL:    meta.ImageURL,
		Capacity:    meta.Capacity,
		Visits:      meta.Visits,
		Favorites:   meta.Favorites,
		Heat:        meta.Heat,
		Popularity:  meta.Popularity,
		Tags:        meta.Tags,
		RefreshedAt: meta.RefreshedAt,
	}
}

// renditionURL builds the public URL of a rendition file.
func renditionURL(kind string, img *domain.WorldImage) string {
	base := strings.TrimSuffix(img.Filename, path.Ext(img.Filename))
	return "/" + kind + "/" + url.PathEscape(img.WorldID) + "/" + url.PathEscape(base+paths.RenditionExt)
}

func mapCategories(cats []*domain.Category) []CategoryResponse {
	resp := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return resp
}
