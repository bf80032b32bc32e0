package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mefinance/pkg/api"
)

func TestCategoriesAndBills(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	token := c.register(t, "dave")

	for _, name := range []string{"Utilities", "Housing"} {
		if _, err := c.category.CreateCategory(ctx, authed(token, &api.CreateCategoryRequest{Name: name})); err != nil {
			t.Fatalf("CreateCategory(%s) failed: %v", name, err)
		}
	}
	list, err := c.category.ListCategories(ctx, authed(token, &api.ListCategoriesRequest{}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(list.Msg.Categories) != 2 || list.Msg.Categories[0].Name != "Housing" {
		t.Fatalf("expected categories ordered by name, got %+v", list.Msg.Categories)
	}
	housing := list.Msg.Categories[0]

	bill, err := c.bill.CreateBill(ctx, authed(token, &api.CreateBillRequest{
		Name:       "Rent",
		Amount:     amount(900),
		DueDate:    time.Now().Add(72 * time.Hour),
		CategoryID: housing.ID,
	}))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if bill.Msg.Bill.IsPaid || bill.Msg.Bill.CategoryID != housing.ID {
		t.Errorf("unexpected bill: %+v", bill.Msg.Bill)
	}

	got, err := c.bill.GetBill(ctx, authed(token, &api.GetBillRequest{BillID: bill.Msg.Bill.ID}))
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if got.Msg.Bill.Name != "Rent" || got.Msg.Bill.Amount != 900 {
		t.Errorf("unexpected bill: %+v", got.Msg.Bill)
	}

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.CreateBillRequest
		}{
			{"missing name", &api.CreateBillRequest{Amount: amount(1), DueDate: time.Now()}},
			{"missing amount", &api.CreateBillRequest{Name: "Gas", DueDate: time.Now()}},
			{"missing due date", &api.CreateBillRequest{Name: "Gas", Amount: amount(1)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := c.bill.CreateBill(ctx, authed(token, tt.req))
				assertCode(t, err, connect.CodeInvalidArgument)
			})
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := c.bill.CreateBill(ctx, authed(token, &api.CreateBillRequest{
			Name: "Gas", Amount: amount(1), DueDate: time.Now(), CategoryID: "nope",
		}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("empty category name", func(t *testing.T) {
		_, err := c.category.CreateCategory(ctx, authed(token, &api.CreateCategoryRequest{Name: " "}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}
