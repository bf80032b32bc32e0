package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/internal/middleware"
	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/internal/storage"
	"github.com/mmynk/mefinance/pkg/api"
	"github.com/mmynk/mefinance/pkg/api/apiconnect"
)

var _ apiconnect.CategoryServiceHandler = (*CategoryService)(nil)

// CategoryService manages user-defined labels.
type CategoryService struct {
	store storage.BookStore
}

func NewCategoryService(store storage.BookStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidField("name", "is required")
	}

	category := &models.Category{UserID: userID, Name: name, Description: req.Msg.Description}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

func (s *CategoryService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Category, 0, len(categories))
	for _, category := range categories {
		out = append(out, toAPICategory(category))
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}
