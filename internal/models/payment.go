package models

// Payment is a negative cash event debited from the owner's balance.
// A payment that cites a bill settles it.
type Payment struct {
	ID          string
	UserID      string
	CategoryID  string
	BillID      string
	Name        string
	Description string
	Amount      float64

	// PaidDate is the Unix timestamp when the payment was recorded.
	PaidDate int64
}
