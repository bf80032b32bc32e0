// Package api defines the request and response messages of the mefinance
// RPC services. Messages are flat JSON objects; timestamps use RFC 3339.
package api

import "time"

// User is the public view of an account. It never carries the password hash.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	IsPremium bool      `json:"is_premium"`
	CreatedAt time.Time `json:"created_at"`
}

type Balance struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	InitialAmount float64   `json:"initial_amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Category struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Bill struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CategoryID  string     `json:"category_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	IsPaid      bool       `json:"is_paid"`
	PaymentID   string     `json:"payment_id,omitempty"`
	PaidDate    *time.Time `json:"paid_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Income struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CategoryID   string    `json:"category_id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Amount       float64   `json:"amount"`
	ReceivedDate time.Time `json:"received_date"`
}

type Payment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  string    `json:"category_id,omitempty"`
	BillID      string    `json:"bill_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	PaidDate    time.Time `json:"paid_date"`
}

// Auth

type RegisterRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Ledger

type CreateBalanceRequest struct {
	// InitialAmount is required. It may be zero or negative.
	InitialAmount *float64 `json:"initial_amount"`
}

type CreateBalanceResponse struct {
	Balance *Balance `json:"balance"`
}

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Balance *Balance `json:"balance"`
}

type RecordIncomeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount"`
	CategoryID  string   `json:"category_id,omitempty"`
}

type RecordIncomeResponse struct {
	Income  *Income  `json:"income"`
	Balance *Balance `json:"balance"`
}

type ListIncomesRequest struct{}

type ListIncomesResponse struct {
	Incomes []*Income `json:"incomes"`
}

type RecordPaymentRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount"`
	CategoryID  string   `json:"category_id,omitempty"`
	BillID      string   `json:"bill_id,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
	Balance *Balance `json:"balance"`
	// Bill is the settled bill, present only when the payment cited one.
	Bill *Bill `json:"bill,omitempty"`
}

type ListPaymentsRequest struct{}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type ReconcileBalanceRequest struct{}

type ReconcileBalanceResponse struct {
	InitialAmount float64 `json:"initial_amount"`
	TotalIncomes  float64 `json:"total_incomes"`
	TotalPayments float64 `json:"total_payments"`
	Stored        float64 `json:"stored"`
	Derived       float64 `json:"derived"`
	Drift         float64 `json:"drift"`
	Consistent    bool    `json:"consistent"`
}

// Bills

type CreateBillRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      *float64  `json:"amount"`
	DueDate     time.Time `json:"due_date"`
	CategoryID  string    `json:"category_id,omitempty"`
}

type CreateBillResponse struct {
	Bill *Bill `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill *Bill `json:"bill"`
}

type ListBillsRequest struct {
	UnpaidOnly bool `json:"unpaid_only"`
}

type ListBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

// Categories

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
