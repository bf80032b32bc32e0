package ledger

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/mefinance/internal/metrics"
	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/internal/storage/sqlite"
)

func amount(v float64) *float64 { return &v }

// setupLedger creates a ledger over a fresh SQLite database in a temp dir.
func setupLedger(t *testing.T, opts ...Option) (*Ledger, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return New(store, opts...), store
}

func createUser(t *testing.T, store *sqlite.SQLiteStore, username string) string {
	t.Helper()
	user := models.NewUser(username, "", "", "", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user.ID
}

func createBill(t *testing.T, store *sqlite.SQLiteStore, userID, name string, amt float64) *models.Bill {
	t.Helper()
	bill := &models.Bill{
		UserID:  userID,
		Name:    name,
		Amount:  amt,
		DueDate: time.Now().Add(24 * time.Hour).Unix(),
	}
	if err := store.CreateBill(context.Background(), bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	return bill
}

func TestSalaryAndRentScenario(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u1 := createUser(t, store, "u1")

	if _, err := l.CreateBalance(ctx, u1, amount(100)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}
	if _, err := l.RecordIncome(ctx, u1, IncomeInput{Name: "salary", Amount: amount(500)}); err != nil {
		t.Fatalf("RecordIncome failed: %v", err)
	}
	res, err := l.RecordPayment(ctx, u1, PaymentInput{Name: "rent", Amount: amount(300)})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if res.Bill != nil {
		t.Errorf("expected no settled bill, got %+v", res.Bill)
	}

	balance, err := l.GetBalance(ctx, u1)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance.Amount != 300 {
		t.Errorf("balance: expected 300, got %f", balance.Amount)
	}
}

func TestPaymentSettlesBill(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u1 := createUser(t, store, "u1")

	if _, err := l.CreateBalance(ctx, u1, amount(0)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}
	b1 := createBill(t, store, u1, "electric", 50)

	res, err := l.RecordPayment(ctx, u1, PaymentInput{Name: "electric pay", Amount: amount(50), BillID: b1.ID})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if res.Bill == nil || !res.Bill.IsPaid {
		t.Fatalf("expected settled bill in result, got %+v", res.Bill)
	}
	if res.Balance.Amount != -50 {
		t.Errorf("result balance: expected -50, got %f", res.Balance.Amount)
	}

	stored, err := store.GetBill(ctx, u1, b1.ID)
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	if !stored.IsPaid {
		t.Error("expected bill to be paid")
	}
	if stored.PaymentID != res.Payment.ID {
		t.Errorf("payment_id: expected %s, got %s", res.Payment.ID, stored.PaymentID)
	}
	if stored.PaidDate == 0 {
		t.Error("expected paid_date to be set")
	}

	balance, err := l.GetBalance(ctx, u1)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance.Amount != -50 {
		t.Errorf("balance: expected -50, got %f", balance.Amount)
	}
}

func TestRecordPayment_Failures(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	if _, err := l.CreateBalance(ctx, alice, amount(200)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}
	bobsBill := createBill(t, store, bob, "bob's rent", 80)
	paidBill := createBill(t, store, alice, "water", 20)
	if _, err := l.RecordPayment(ctx, alice, PaymentInput{Name: "water", Amount: amount(20), BillID: paidBill.ID}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	// balance is now 180 with one payment on record

	tests := []struct {
		name    string
		userID  string
		input   PaymentInput
		wantErr error
	}{
		{"unknown bill", alice, PaymentInput{Name: "x", Amount: amount(10), BillID: "missing"}, ErrNotFound},
		{"another user's bill", alice, PaymentInput{Name: "x", Amount: amount(10), BillID: bobsBill.ID}, ErrNotFound},
		{"unknown category", alice, PaymentInput{Name: "x", Amount: amount(10), CategoryID: "missing"}, ErrNotFound},
		{"already paid bill", alice, PaymentInput{Name: "x", Amount: amount(20), BillID: paidBill.ID}, ErrConflict},
		{"missing amount", alice, PaymentInput{Name: "x"}, ErrValidation},
		{"missing name", alice, PaymentInput{Amount: amount(1)}, ErrValidation},
		{"no balance", bob, PaymentInput{Name: "x", Amount: amount(10), BillID: bobsBill.ID}, ErrPreconditionFailed},
		{"no user", "", PaymentInput{Name: "x", Amount: amount(10)}, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.RecordPayment(ctx, tt.userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("nothing persisted", func(t *testing.T) {
		balance, err := l.GetBalance(ctx, alice)
		if err != nil {
			t.Fatalf("GetBalance failed: %v", err)
		}
		if balance.Amount != 180 {
			t.Errorf("balance: expected 180, got %f", balance.Amount)
		}

		payments, err := l.ListPayments(ctx, alice)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 {
			t.Errorf("payments: expected 1, got %d", len(payments))
		}

		bobPayments, err := l.ListPayments(ctx, bob)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(bobPayments) != 0 {
			t.Errorf("bob payments: expected 0, got %d", len(bobPayments))
		}

		bill, err := store.GetBill(ctx, bob, bobsBill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if bill.IsPaid {
			t.Error("bill must stay unpaid when the payment fails")
		}
	})
}

func TestValidationErrorCarriesField(t *testing.T) {
	l, store := setupLedger(t)
	u := createUser(t, store, "u")

	_, err := l.RecordIncome(context.Background(), u, IncomeInput{Name: "salary"})
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fieldErr.Field != "amount" {
		t.Errorf("field: expected amount, got %s", fieldErr.Field)
	}

	_, err = l.CreateBalance(context.Background(), u, amount(math.NaN()))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for NaN, got %v", err)
	}
}

func TestRecordIncome_WithoutBalance(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u := createUser(t, store, "u")

	_, err := l.RecordIncome(ctx, u, IncomeInput{Name: "salary", Amount: amount(500)})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}

	incomes, err := l.ListIncomes(ctx, u)
	if err != nil {
		t.Fatalf("ListIncomes failed: %v", err)
	}
	if len(incomes) != 0 {
		t.Errorf("expected no persisted incomes, got %d", len(incomes))
	}

	if _, err := l.GetBalance(ctx, u); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing balance, got %v", err)
	}
}

func TestRecordIncome_UnknownCategory(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u := createUser(t, store, "u")
	if _, err := l.CreateBalance(ctx, u, amount(0)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}

	_, err := l.RecordIncome(ctx, u, IncomeInput{Name: "gift", Amount: amount(5), CategoryID: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	category := &models.Category{UserID: u, Name: "gifts"}
	if err := store.CreateCategory(ctx, category); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	res, err := l.RecordIncome(ctx, u, IncomeInput{Name: "gift", Amount: amount(5), CategoryID: category.ID})
	if err != nil {
		t.Fatalf("RecordIncome failed: %v", err)
	}
	if res.Income.CategoryID != category.ID {
		t.Errorf("category: expected %s, got %s", category.ID, res.Income.CategoryID)
	}
	if res.Balance.Amount != 5 {
		t.Errorf("balance: expected 5, got %f", res.Balance.Amount)
	}
}

func TestCreateBalance_Twice(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u := createUser(t, store, "u")

	if _, err := l.CreateBalance(ctx, u, amount(10)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}
	if _, err := l.CreateBalance(ctx, u, amount(99)); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	balance, err := l.GetBalance(ctx, u)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if balance.Amount != 10 {
		t.Errorf("balance: expected 10, got %f", balance.Amount)
	}
}

func TestBalanceEqualsIncomesMinusPayments(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u := createUser(t, store, "u")

	if _, err := l.CreateBalance(ctx, u, amount(0)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	var want float64
	for i := 0; i < 60; i++ {
		// whole cents keep float sums exact enough to compare with a tolerance
		amt := float64(rng.Intn(100000)) / 100
		if rng.Intn(2) == 0 {
			if _, err := l.RecordIncome(ctx, u, IncomeInput{Name: "in", Amount: amount(amt)}); err != nil {
				t.Fatalf("RecordIncome failed: %v", err)
			}
			want += amt
		} else {
			if _, err := l.RecordPayment(ctx, u, PaymentInput{Name: "out", Amount: amount(amt)}); err != nil {
				t.Fatalf("RecordPayment failed: %v", err)
			}
			want -= amt
		}
	}

	balance, err := l.GetBalance(ctx, u)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if math.Abs(balance.Amount-want) > 0.001 {
		t.Errorf("balance: expected %f, got %f", want, balance.Amount)
	}

	rec, err := l.Reconcile(ctx, u)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if !rec.Consistent() {
		t.Errorf("expected consistent ledger, drift %f", rec.Drift)
	}
}

func TestConcurrentIncomes(t *testing.T) {
	l, store := setupLedger(t)
	ctx := context.Background()
	u := createUser(t, store, "u")

	if _, err := l.CreateBalance(ctx, u, amount(0)); err != nil {
		t.Fatalf("CreateBalance failed: %v", err)
	}

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(amt float64) {
			defer wg.Done()
			if _, err := l.RecordIncome(ctx, u, IncomeInput{Name: "tip", Amount: amount(amt)}); err != nil {
				errs <- err
			}
		}(float64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("RecordIncome failed: %v", err)
	}

	balance, err := l.GetBalance(ctx, u)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	want := float64(n * (n + 1) / 2)
	if balance.Amount != want {
		t.Errorf("balance: expected %f, got %f", want, balance.Amount)
	}
	if got := l.locks.size(); got != 0 {
		t.Errorf("expected lock table to drain, %d entries left", got)
	}
}

func TestLedgerMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	l, store := setupLedger(t, WithMetrics(m))
	ctx := context.Background()
	u := createUser(t, store, "u")

	l.RecordIncome(ctx, u, IncomeInput{Name: "early", Amount: amount(1)})
	l.CreateBalance(ctx, u, amount(0))
	l.RecordIncome(ctx, u, IncomeInput{Name: "salary", Amount: amount(1)})

	if got := testutil.ToFloat64(m.LedgerOps.WithLabelValues("record_income", "precondition_failed")); got != 1 {
		t.Errorf("precondition_failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LedgerOps.WithLabelValues("record_income", "ok")); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LedgerOps.WithLabelValues("create_balance", "ok")); got != 1 {
		t.Errorf("create_balance ok = %v, want 1", got)
	}
}
