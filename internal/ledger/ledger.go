// Package ledger keeps each user's running balance consistent with the
// incomes and payments recorded against it, and settles bills when a
// payment cites them.
//
// Balance mutations for one user are serialized in-process, and every
// mutation is applied by the store as a single atomic update inside the
// same transaction that records the income or payment.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/mmynk/mefinance/internal/metrics"
	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/internal/storage"
)

// IncomeInput is the caller-supplied part of an income.
type IncomeInput struct {
	Name        string
	Description string
	// Amount is required. Zero and negative values are accepted as-is.
	Amount     *float64
	CategoryID string
}

// PaymentInput is the caller-supplied part of a payment.
type PaymentInput struct {
	Name        string
	Description string
	// Amount is required. Zero and negative values are accepted as-is.
	Amount     *float64
	CategoryID string
	// BillID, when set, names the bill this payment settles.
	BillID string
}

// IncomeResult is a committed income and the balance after crediting it.
type IncomeResult struct {
	Income  *models.Income
	Balance *models.Balance
}

// PaymentResult is a committed payment, the balance after debiting it,
// and the settled bill if the payment cited one.
type PaymentResult struct {
	Payment *models.Payment
	Balance *models.Balance
	Bill    *models.Bill
}

// Ledger is the balance accounting core.
type Ledger struct {
	store   storage.LedgerStore
	locks   *keyedMutex
	metrics *metrics.Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMetrics records ledger operation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// New creates a Ledger backed by store.
func New(store storage.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		locks: newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateBalance creates the user's balance with amount = initialAmount.
// A user has at most one balance; a second call fails with ErrConflict.
func (l *Ledger) CreateBalance(ctx context.Context, userID string, initialAmount *float64) (balance *models.Balance, err error) {
	defer func() { l.observe("create_balance", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateAmount(initialAmount); err != nil {
		return nil, err
	}

	unlock := l.locks.Lock(userID)
	defer unlock()

	balance = &models.Balance{
		UserID:        userID,
		Amount:        *initialAmount,
		InitialAmount: *initialAmount,
	}
	if err := l.store.CreateBalance(ctx, balance); err != nil {
		return nil, classify(err)
	}

	slog.Info("Balance created", "user_id", userID, "amount", balance.Amount)
	return balance, nil
}

// GetBalance returns the user's balance, or ErrNotFound if none exists yet.
func (l *Ledger) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	balance, err := l.store.GetBalance(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return balance, nil
}

// RecordIncome persists an income and credits its amount to the user's
// balance. Without a balance it fails with ErrPreconditionFailed and
// persists nothing.
func (l *Ledger) RecordIncome(ctx context.Context, userID string, in IncomeInput) (res *IncomeResult, err error) {
	defer func() { l.observe("record_income", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateEntry(in.Name, in.Amount); err != nil {
		return nil, err
	}

	income := &models.Income{
		UserID:      userID,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Amount:      *in.Amount,
	}

	unlock := l.locks.Lock(userID)
	defer unlock()

	balance, err := l.store.RecordIncome(ctx, income)
	if err != nil {
		return nil, classify(err)
	}

	slog.Info("Income recorded",
		"user_id", userID,
		"income_id", income.ID,
		"amount", income.Amount,
		"balance", balance.Amount,
	)
	return &IncomeResult{Income: income, Balance: balance}, nil
}

// RecordPayment persists a payment, debits its amount from the user's
// balance and, if the payment cites a bill, marks that bill paid. The
// three writes commit together or not at all. Balances may go negative.
func (l *Ledger) RecordPayment(ctx context.Context, userID string, in PaymentInput) (res *PaymentResult, err error) {
	defer func() { l.observe("record_payment", err) }()

	if userID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateEntry(in.Name, in.Amount); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:      userID,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		BillID:      strings.TrimSpace(in.BillID),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Amount:      *in.Amount,
	}

	unlock := l.locks.Lock(userID)
	defer unlock()

	balance, bill, err := l.store.RecordPayment(ctx, payment)
	if err != nil {
		return nil, classify(err)
	}

	attrs := []any{
		"user_id", userID,
		"payment_id", payment.ID,
		"amount", payment.Amount,
		"balance", balance.Amount,
	}
	if bill != nil {
		attrs = append(attrs, "settled_bill_id", bill.ID)
	}
	slog.Info("Payment recorded", attrs...)

	return &PaymentResult{Payment: payment, Balance: balance, Bill: bill}, nil
}

// ListIncomes returns the user's incomes, newest first.
func (l *Ledger) ListIncomes(ctx context.Context, userID string) ([]*models.Income, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	incomes, err := l.store.ListIncomes(ctx, userID)
	return incomes, classify(err)
}

// ListPayments returns the user's payments, newest first.
func (l *Ledger) ListPayments(ctx context.Context, userID string) ([]*models.Payment, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	payments, err := l.store.ListPayments(ctx, userID)
	return payments, classify(err)
}

func (l *Ledger) observe(operation string, err error) {
	if l.metrics == nil {
		return
	}
	l.metrics.ObserveLedger(operation, resultLabel(err))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

func validateEntry(name string, amount *float64) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	return validateAmount(amount)
}

func validateAmount(amount *float64) error {
	if amount == nil {
		return invalid("amount", "is required")
	}
	if math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return invalid("amount", "must be a finite number")
	}
	return nil
}
