package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/pkg/api"
)

// CategoryServiceName is the fully-qualified name of the CategoryService service.
const CategoryServiceName = "mefinance.v1.CategoryService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// CategoryServiceCreateCategoryProcedure is the fully-qualified name of the CategoryService's CreateCategory RPC.
	CategoryServiceCreateCategoryProcedure = "/mefinance.v1.CategoryService/CreateCategory"
	// CategoryServiceListCategoriesProcedure is the fully-qualified name of the CategoryService's ListCategories RPC.
	CategoryServiceListCategoriesProcedure = "/mefinance.v1.CategoryService/ListCategories"
)

// CategoryServiceClient is a client for the mefinance.v1.CategoryService service.
type CategoryServiceClient interface {
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
}

// NewCategoryServiceClient constructs a client for the mefinance.v1.CategoryService service.
//
// The URL supplied here should be the base URL for the server (for example,
// http://api.acme.com or https://acme.com/grpc).
func NewCategoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CategoryServiceClient {
	opts = clientOptions(opts)
	return &categoryServiceClient{
		createCategory: connect.NewClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL+CategoryServiceCreateCategoryProcedure, opts...),
		listCategories: connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+CategoryServiceListCategoriesProcedure, opts...),
	}
}

type categoryServiceClient struct {
	createCategory *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	listCategories *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
}

// CreateCategory calls mefinance.v1.CategoryService.CreateCategory.
func (c *categoryServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

// ListCategories calls mefinance.v1.CategoryService.ListCategories.
func (c *categoryServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

// CategoryServiceHandler is implemented by the server; the CategoryService manages user-defined labels.
type CategoryServiceHandler interface {
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
}

// NewCategoryServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewCategoryServiceHandler(svc CategoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createCategoryHandler := connect.NewUnaryHandler(CategoryServiceCreateCategoryProcedure, svc.CreateCategory, opts...)
	listCategoriesHandler := connect.NewUnaryHandler(CategoryServiceListCategoriesProcedure, svc.ListCategories, opts...)
	return "/mefinance.v1.CategoryService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CategoryServiceCreateCategoryProcedure:
			createCategoryHandler.ServeHTTP(w, r)
		case CategoryServiceListCategoriesProcedure:
			listCategoriesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
