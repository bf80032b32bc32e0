package models

// Balance is a user's running total of incomes minus payments.
type Balance struct {
	// ID is the unique identifier for the balance (UUID format).
	ID string

	// UserID owns this balance. At most one balance exists per user.
	UserID string

	// Amount is the current running total. It may be negative.
	Amount float64

	// InitialAmount is the amount supplied when the balance was created.
	// Reconciliation starts from it.
	InitialAmount float64

	CreatedAt int64
	UpdatedAt int64
}
