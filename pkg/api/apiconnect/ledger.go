package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "mefinance.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// LedgerServiceCreateBalanceProcedure is the fully-qualified name of the LedgerService's CreateBalance RPC.
	LedgerServiceCreateBalanceProcedure = "/mefinance.v1.LedgerService/CreateBalance"
	// LedgerServiceGetBalanceProcedure is the fully-qualified name of the LedgerService's GetBalance RPC.
	LedgerServiceGetBalanceProcedure = "/mefinance.v1.LedgerService/GetBalance"
	// LedgerServiceRecordIncomeProcedure is the fully-qualified name of the LedgerService's RecordIncome RPC.
	LedgerServiceRecordIncomeProcedure = "/mefinance.v1.LedgerService/RecordIncome"
	// LedgerServiceListIncomesProcedure is the fully-qualified name of the LedgerService's ListIncomes RPC.
	LedgerServiceListIncomesProcedure = "/mefinance.v1.LedgerService/ListIncomes"
	// LedgerServiceRecordPaymentProcedure is the fully-qualified name of the LedgerService's RecordPayment RPC.
	LedgerServiceRecordPaymentProcedure = "/mefinance.v1.LedgerService/RecordPayment"
	// LedgerServiceListPaymentsProcedure is the fully-qualified name of the LedgerService's ListPayments RPC.
	LedgerServiceListPaymentsProcedure = "/mefinance.v1.LedgerService/ListPayments"
	// LedgerServiceReconcileBalanceProcedure is the fully-qualified name of the LedgerService's ReconcileBalance RPC.
	LedgerServiceReconcileBalanceProcedure = "/mefinance.v1.LedgerService/ReconcileBalance"
)

// LedgerServiceClient is a client for the mefinance.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateBalance(context.Context, *connect.Request[api.CreateBalanceRequest]) (*connect.Response[api.CreateBalanceResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	RecordIncome(context.Context, *connect.Request[api.RecordIncomeRequest]) (*connect.Response[api.RecordIncomeResponse], error)
	ListIncomes(context.Context, *connect.Request[api.ListIncomesRequest]) (*connect.Response[api.ListIncomesResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	ReconcileBalance(context.Context, *connect.Request[api.ReconcileBalanceRequest]) (*connect.Response[api.ReconcileBalanceResponse], error)
}

// NewLedgerServiceClient constructs a client for the mefinance.v1.LedgerService service.
//
// The URL supplied here should be the base URL for the server (for example,
// http://api.acme.com or https://acme.com/grpc).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createBalance:    connect.NewClient[api.CreateBalanceRequest, api.CreateBalanceResponse](httpClient, baseURL+LedgerServiceCreateBalanceProcedure, opts...),
		getBalance:       connect.NewClient[api.GetBalanceRequest, api.GetBalanceResponse](httpClient, baseURL+LedgerServiceGetBalanceProcedure, opts...),
		recordIncome:     connect.NewClient[api.RecordIncomeRequest, api.RecordIncomeResponse](httpClient, baseURL+LedgerServiceRecordIncomeProcedure, opts...),
		listIncomes:      connect.NewClient[api.ListIncomesRequest, api.ListIncomesResponse](httpClient, baseURL+LedgerServiceListIncomesProcedure, opts...),
		recordPayment:    connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+LedgerServiceRecordPaymentProcedure, opts...),
		listPayments:     connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
		reconcileBalance: connect.NewClient[api.ReconcileBalanceRequest, api.ReconcileBalanceResponse](httpClient, baseURL+LedgerServiceReconcileBalanceProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createBalance    *connect.Client[api.CreateBalanceRequest, api.CreateBalanceResponse]
	getBalance       *connect.Client[api.GetBalanceRequest, api.GetBalanceResponse]
	recordIncome     *connect.Client[api.RecordIncomeRequest, api.RecordIncomeResponse]
	listIncomes      *connect.Client[api.ListIncomesRequest, api.ListIncomesResponse]
	recordPayment    *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	listPayments     *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	reconcileBalance *connect.Client[api.ReconcileBalanceRequest, api.ReconcileBalanceResponse]
}

// CreateBalance calls mefinance.v1.LedgerService.CreateBalance.
func (c *ledgerServiceClient) CreateBalance(ctx context.Context, req *connect.Request[api.CreateBalanceRequest]) (*connect.Response[api.CreateBalanceResponse], error) {
	return c.createBalance.CallUnary(ctx, req)
}

// GetBalance calls mefinance.v1.LedgerService.GetBalance.
func (c *ledgerServiceClient) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	return c.getBalance.CallUnary(ctx, req)
}

// RecordIncome calls mefinance.v1.LedgerService.RecordIncome.
func (c *ledgerServiceClient) RecordIncome(ctx context.Context, req *connect.Request[api.RecordIncomeRequest]) (*connect.Response[api.RecordIncomeResponse], error) {
	return c.recordIncome.CallUnary(ctx, req)
}

// ListIncomes calls mefinance.v1.LedgerService.ListIncomes.
func (c *ledgerServiceClient) ListIncomes(ctx context.Context, req *connect.Request[api.ListIncomesRequest]) (*connect.Response[api.ListIncomesResponse], error) {
	return c.listIncomes.CallUnary(ctx, req)
}

// RecordPayment calls mefinance.v1.LedgerService.RecordPayment.
func (c *ledgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

// ListPayments calls mefinance.v1.LedgerService.ListPayments.
func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

// ReconcileBalance calls mefinance.v1.LedgerService.ReconcileBalance.
func (c *ledgerServiceClient) ReconcileBalance(ctx context.Context, req *connect.Request[api.ReconcileBalanceRequest]) (*connect.Response[api.ReconcileBalanceResponse], error) {
	return c.reconcileBalance.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by the server; the LedgerService owns the user's balance and the incomes and payments that move it.
type LedgerServiceHandler interface {
	CreateBalance(context.Context, *connect.Request[api.CreateBalanceRequest]) (*connect.Response[api.CreateBalanceResponse], error)
	GetBalance(context.Context, *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error)
	RecordIncome(context.Context, *connect.Request[api.RecordIncomeRequest]) (*connect.Response[api.RecordIncomeResponse], error)
	ListIncomes(context.Context, *connect.Request[api.ListIncomesRequest]) (*connect.Response[api.ListIncomesResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	ReconcileBalance(context.Context, *connect.Request[api.ReconcileBalanceRequest]) (*connect.Response[api.ReconcileBalanceResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation. It
// returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createBalanceHandler := connect.NewUnaryHandler(LedgerServiceCreateBalanceProcedure, svc.CreateBalance, opts...)
	getBalanceHandler := connect.NewUnaryHandler(LedgerServiceGetBalanceProcedure, svc.GetBalance, opts...)
	recordIncomeHandler := connect.NewUnaryHandler(LedgerServiceRecordIncomeProcedure, svc.RecordIncome, opts...)
	listIncomesHandler := connect.NewUnaryHandler(LedgerServiceListIncomesProcedure, svc.ListIncomes, opts...)
	recordPaymentHandler := connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPaymentsHandler := connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...)
	reconcileBalanceHandler := connect.NewUnaryHandler(LedgerServiceReconcileBalanceProcedure, svc.ReconcileBalance, opts...)
	return "/mefinance.v1.LedgerService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateBalanceProcedure:
			createBalanceHandler.ServeHTTP(w, r)
		case LedgerServiceGetBalanceProcedure:
			getBalanceHandler.ServeHTTP(w, r)
		case LedgerServiceRecordIncomeProcedure:
			recordIncomeHandler.ServeHTTP(w, r)
		case LedgerServiceListIncomesProcedure:
			listIncomesHandler.ServeHTTP(w, r)
		case LedgerServiceRecordPaymentProcedure:
			recordPaymentHandler.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			listPaymentsHandler.ServeHTTP(w, r)
		case LedgerServiceReconcileBalanceProcedure:
			reconcileBalanceHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
