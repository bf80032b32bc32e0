package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "mefinance.v1.BillService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// BillServiceCreateBillProcedure is the fully-qualified name of the BillService's CreateBill RPC.
	BillServiceCreateBillProcedure = "/mefinance.v1.BillService/CreateBill"
	// BillServiceGetBillProcedure is the fully-qualified name of the BillService's GetBill RPC.
	BillServiceGetBillProcedure = "/mefinance.v1.BillService/GetBill"
	// BillServiceListBillsProcedure is the fully-qualified name of the BillService's ListBills RPC.
	BillServiceListBillsProcedure = "/mefinance.v1.BillService/ListBills"
)

// BillServiceClient is a client for the mefinance.v1.BillService service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
}

// NewBillServiceClient constructs a client for the mefinance.v1.BillService service.
//
// The URL supplied here should be the base URL for the server (for example,
// http://api.acme.com or https://acme.com/grpc).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill: connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:    connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills:  connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
	}
}

type billServiceClient struct {
	createBill *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill    *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills  *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
}

// CreateBill calls mefinance.v1.BillService.CreateBill.
func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

// GetBill calls mefinance.v1.BillService.GetBill.
func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

// ListBills calls mefinance.v1.BillService.ListBills.
func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

// BillServiceHandler is implemented by the server; the BillService tracks obligations settled by payments.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createBillHandler := connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...)
	getBillHandler := connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...)
	listBillsHandler := connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...)
	return "/mefinance.v1.BillService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceCreateBillProcedure:
			createBillHandler.ServeHTTP(w, r)
		case BillServiceGetBillProcedure:
			getBillHandler.ServeHTTP(w, r)
		case BillServiceListBillsProcedure:
			listBillsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
