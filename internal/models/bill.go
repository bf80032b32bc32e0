package models

// Bill is an obligation the user expects to pay.
type Bill struct {
	ID     string
	UserID string

	// CategoryID is optional; empty means uncategorized.
	CategoryID string

	Name        string
	Description string
	Amount      float64

	// DueDate is the Unix timestamp the bill is due.
	DueDate int64

	// IsPaid flips to true when a payment citing this bill commits.
	// Nothing ever flips it back.
	IsPaid bool

	// PaymentID and PaidDate are set together with IsPaid.
	PaymentID string
	PaidDate  int64

	CreatedAt int64
}

// DueBill is an unpaid bill joined with the contact details of its owner.
type DueBill struct {
	Bill
	Username string
	Email    string
}
