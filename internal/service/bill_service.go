package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/internal/middleware"
	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/internal/storage"
	"github.com/mmynk/mefinance/pkg/api"
	"github.com/mmynk/mefinance/pkg/api/apiconnect"
)

var _ apiconnect.BillServiceHandler = (*BillService)(nil)

// BillService manages bills. Bills are settled only through
// LedgerService.RecordPayment, never directly.
type BillService struct {
	store storage.BookStore
}

func NewBillService(store storage.BookStore) *BillService {
	return &BillService{store: store}
}

func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	name := strings.TrimSpace(req.Msg.Name)
	switch {
	case name == "":
		return nil, invalidField("name", "is required")
	case req.Msg.Amount == nil:
		return nil, invalidField("amount", "is required")
	case math.IsNaN(*req.Msg.Amount) || math.IsInf(*req.Msg.Amount, 0):
		return nil, invalidField("amount", "must be a finite number")
	case req.Msg.DueDate.IsZero():
		return nil, invalidField("due_date", "is required")
	}

	bill := &models.Bill{
		UserID:      userID,
		CategoryID:  strings.TrimSpace(req.Msg.CategoryID),
		Name:        name,
		Description: req.Msg.Description,
		Amount:      *req.Msg.Amount,
		DueDate:     req.Msg.DueDate.Unix(),
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Bill created", "user_id", userID, "bill_id", bill.ID, "due_date", req.Msg.DueDate)
	return connect.NewResponse(&api.CreateBillResponse{Bill: toAPIBill(bill)}), nil
}

func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}
	if req.Msg.BillID == "" {
		return nil, invalidField("bill_id", "is required")
	}

	bill, err := s.store.GetBill(ctx, userID, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetBillResponse{Bill: toAPIBill(bill)}), nil
}

func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	bills, err := s.store.ListBills(ctx, userID, req.Msg.UnpaidOnly)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*api.Bill, 0, len(bills))
	for _, bill := range bills {
		out = append(out, toAPIBill(bill))
	}
	return connect.NewResponse(&api.ListBillsResponse{Bills: out}), nil
}
