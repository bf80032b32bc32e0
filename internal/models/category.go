package models

// Category is a user-defined label with no accounting effect.
type Category struct {
	ID          string
	UserID      string
	Name        string
	Description string
	CreatedAt   int64
}
