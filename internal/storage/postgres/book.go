package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/internal/storage"
)

const billColumns = `id, user_id, category_id, payment_id, name, description, amount, due_date, is_paid, paid_date, created_at`

// CreateCategory inserts a new category.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, user_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.UserID, category.Name, category.Description, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves one of the user's categories.
func (s *Store) GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category := &models.Category{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, created_at FROM categories WHERE id = $1 AND user_id = $2`,
		categoryID, userID,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.Description, &category.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves the user's categories ordered by name.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, description, created_at FROM categories WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Description, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// CreateBill inserts a new unpaid bill.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	bill.IsPaid = false
	bill.PaymentID = ""
	bill.PaidDate = 0

	return s.withTx(ctx, func(tx pgx.Tx) error {
		if bill.CategoryID != "" {
			if err := categoryExists(ctx, tx, bill.UserID, bill.CategoryID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO bills (id, user_id, category_id, name, description, amount, due_date, is_paid, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`,
			bill.ID, bill.UserID, nullIfEmpty(bill.CategoryID), bill.Name, bill.Description,
			bill.Amount, bill.DueDate, bill.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}
		return nil
	})
}

// GetBill retrieves one of the user's bills.
func (s *Store) GetBill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	return getBill(ctx, s.pool, userID, billID, false)
}

// getBill reads a bill; forUpdate locks its row until the transaction ends.
func getBill(ctx context.Context, q querier, userID, billID string, forUpdate bool) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	bill, err := scanBill(q.QueryRow(ctx, query, billID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return bill, nil
}

// ListBills retrieves the user's bills, soonest due first.
func (s *Store) ListBills(ctx context.Context, userID string, unpaidOnly bool) ([]*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE user_id = $1`
	if unpaidOnly {
		query += ` AND NOT is_paid`
	}
	query += ` ORDER BY due_date, created_at`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// ListDueBills retrieves unpaid bills of all users due before the cutoff.
func (s *Store) ListDueBills(ctx context.Context, before time.Time) ([]*models.DueBill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.payment_id, b.name, b.description, b.amount,
		        b.due_date, b.is_paid, b.paid_date, b.created_at, u.username, u.email
		 FROM bills b
		 JOIN users u ON u.id = b.user_id
		 WHERE NOT b.is_paid AND b.due_date < $1
		 ORDER BY b.due_date`,
		before.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due bills: %w", err)
	}
	defer rows.Close()

	var due []*models.DueBill
	for rows.Next() {
		d := &models.DueBill{}
		var categoryID, paymentID *string
		var paidDate *int64
		if err := rows.Scan(&d.ID, &d.UserID, &categoryID, &paymentID, &d.Name, &d.Description, &d.Amount,
			&d.DueDate, &d.IsPaid, &paidDate, &d.CreatedAt, &d.Username, &d.Email); err != nil {
			return nil, fmt.Errorf("scan due bill: %w", err)
		}
		d.CategoryID = deref(categoryID)
		d.PaymentID = deref(paymentID)
		if paidDate != nil {
			d.PaidDate = *paidDate
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func scanBill(row pgx.Row) (*models.Bill, error) {
	bill := &models.Bill{}
	var categoryID, paymentID *string
	var paidDate *int64
	if err := row.Scan(&bill.ID, &bill.UserID, &categoryID, &paymentID, &bill.Name, &bill.Description,
		&bill.Amount, &bill.DueDate, &bill.IsPaid, &paidDate, &bill.CreatedAt); err != nil {
		return nil, err
	}
	bill.CategoryID = deref(categoryID)
	bill.PaymentID = deref(paymentID)
	if paidDate != nil {
		bill.PaidDate = *paidDate
	}
	return bill, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
