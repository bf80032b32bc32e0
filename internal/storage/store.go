// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/mefinance/internal/models"
)

var (
	// ErrNotFound indicates a record does not exist or belongs to another user.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrNoBalance indicates a balance mutation for a user without a balance.
	ErrNoBalance = errors.New("balance not created")

	// ErrBillPaid indicates a payment cited a bill that is already settled.
	ErrBillPaid = errors.New("bill already paid")
)

// UserStore defines persistence for user accounts.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound if no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// LedgerStore defines the balance-affecting operations. Every mutating
// method runs in a single transaction: either all of its writes commit
// or none do.
type LedgerStore interface {
	// CreateBalance inserts the user's balance. The ID, CreatedAt and
	// UpdatedAt fields are populated. Returns ErrAlreadyExists if the user
	// already has one.
	CreateBalance(ctx context.Context, balance *models.Balance) error

	// GetBalance returns ErrNotFound if the user has no balance.
	GetBalance(ctx context.Context, userID string) (*models.Balance, error)

	// RecordIncome inserts the income and credits its amount to the
	// owner's balance. Returns ErrNotFound for an unknown category and
	// ErrNoBalance if the user has no balance.
	RecordIncome(ctx context.Context, income *models.Income) (*models.Balance, error)

	// RecordPayment inserts the payment, debits the owner's balance and,
	// if BillID is set, settles that bill. Returns ErrNotFound for an
	// unknown category or bill, ErrBillPaid for a settled bill and
	// ErrNoBalance if the user has no balance. The returned bill is nil
	// when the payment cites none.
	RecordPayment(ctx context.Context, payment *models.Payment) (*models.Balance, *models.Bill, error)

	// ListIncomes returns the user's incomes, newest first.
	ListIncomes(ctx context.Context, userID string) ([]*models.Income, error)

	// ListPayments returns the user's payments, newest first.
	ListPayments(ctx context.Context, userID string) ([]*models.Payment, error)

	// SumLedger returns the totals of the user's incomes and payments.
	SumLedger(ctx context.Context, userID string) (incomes float64, payments float64, err error)
}

// BookStore defines persistence for categories and bills.
type BookStore interface {
	// CreateCategory inserts a category. ID and CreatedAt are populated.
	CreateCategory(ctx context.Context, category *models.Category) error

	// GetCategory returns ErrNotFound unless the category exists and belongs to userID.
	GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error)

	// ListCategories returns the user's categories ordered by name.
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)

	// CreateBill inserts an unpaid bill. ID and CreatedAt are populated.
	// Returns ErrNotFound if CategoryID is set but unknown to the user.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill returns ErrNotFound unless the bill exists and belongs to userID.
	GetBill(ctx context.Context, userID, billID string) (*models.Bill, error)

	// ListBills returns the user's bills ordered by due date.
	ListBills(ctx context.Context, userID string, unpaidOnly bool) ([]*models.Bill, error)

	// ListDueBills returns unpaid bills of every user due before the cutoff.
	ListDueBills(ctx context.Context, before time.Time) ([]*models.DueBill, error)
}

// Store is the full persistence surface used by the server.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	LedgerStore
	BookStore

	// Close releases any resources held by the store.
	Close() error
}
