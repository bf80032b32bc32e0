package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/internal/ledger"
	"github.com/mmynk/mefinance/internal/middleware"
	"github.com/mmynk/mefinance/pkg/api"
	"github.com/mmynk/mefinance/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService exposes the balance ledger over RPC. The acting user is
// always the authenticated caller.
type LedgerService struct {
	ledger *ledger.Ledger
}

func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

func (s *LedgerService) CreateBalance(ctx context.Context, req *connect.Request[api.CreateBalanceRequest]) (*connect.Response[api.CreateBalanceResponse], error) {
	balance, err := s.ledger.CreateBalance(ctx, middleware.GetUserID(ctx), req.Msg.InitialAmount)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateBalanceResponse{Balance: toAPIBalance(balance)}), nil
}

func (s *LedgerService) GetBalance(ctx context.Context, req *connect.Request[api.GetBalanceRequest]) (*connect.Response[api.GetBalanceResponse], error) {
	balance, err := s.ledger.GetBalance(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetBalanceResponse{Balance: toAPIBalance(balance)}), nil
}

func (s *LedgerService) RecordIncome(ctx context.Context, req *connect.Request[api.RecordIncomeRequest]) (*connect.Response[api.RecordIncomeResponse], error) {
	res, err := s.ledger.RecordIncome(ctx, middleware.GetUserID(ctx), ledger.IncomeInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		CategoryID:  req.Msg.CategoryID,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RecordIncomeResponse{
		Income:  toAPIIncome(res.Income),
		Balance: toAPIBalance(res.Balance),
	}), nil
}

func (s *LedgerService) ListIncomes(ctx context.Context, req *connect.Request[api.ListIncomesRequest]) (*connect.Response[api.ListIncomesResponse], error) {
	incomes, err := s.ledger.ListIncomes(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Income, 0, len(incomes))
	for _, income := range incomes {
		out = append(out, toAPIIncome(income))
	}
	return connect.NewResponse(&api.ListIncomesResponse{Incomes: out}), nil
}

func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	res, err := s.ledger.RecordPayment(ctx, middleware.GetUserID(ctx), ledger.PaymentInput{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		CategoryID:  req.Msg.CategoryID,
		BillID:      req.Msg.BillID,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.RecordPaymentResponse{
		Payment: toAPIPayment(res.Payment),
		Balance: toAPIBalance(res.Balance),
	}
	if res.Bill != nil {
		resp.Bill = toAPIBill(res.Bill)
	}
	return connect.NewResponse(resp), nil
}

func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	payments, err := s.ledger.ListPayments(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Payment, 0, len(payments))
	for _, payment := range payments {
		out = append(out, toAPIPayment(payment))
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// ReconcileBalance reports drift between the stored balance and history. It never writes.
func (s *LedgerService) ReconcileBalance(ctx context.Context, req *connect.Request[api.ReconcileBalanceRequest]) (*connect.Response[api.ReconcileBalanceResponse], error) {
	r, err := s.ledger.Reconcile(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ReconcileBalanceResponse{
		InitialAmount: r.InitialAmount,
		TotalIncomes:  r.TotalIncomes,
		TotalPayments: r.TotalPayments,
		Stored:        r.Stored,
		Derived:       r.Derived,
		Drift:         r.Drift,
		Consistent:    r.Consistent(),
	}), nil
}
