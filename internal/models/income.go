package models

// Income is a positive cash event credited to the owner's balance.
type Income struct {
	ID          string
	UserID      string
	CategoryID  string
	Name        string
	Description string
	Amount      float64

	// ReceivedDate is the Unix timestamp when the income was recorded.
	ReceivedDate int64
}
