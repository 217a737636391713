package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns every category in the catalog",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)
}

type ListCategoriesInput struct{}

func (s *Server) handleListCategories(ctx context.Context, _ *ListCategoriesInput) (*CategoriesOutput, error) {
	cats, err := s.worldService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := &CategoriesOutput{}
	out.Body.Categories = mapCategories(cats)
	return out, nil
}
