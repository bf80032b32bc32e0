package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mefinance/internal/models"
	"github.com/mmynk/mefinance/internal/storage"
)

const billColumns = `id, user_id, category_id, payment_id, name, description, amount, due_date, is_paid, paid_date, created_at`

// CreateCategory persists a new category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.UserID, category.Name, category.Description, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves one of the user's categories.
func (s *SQLiteStore) GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error) {
	category := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, created_at FROM categories WHERE id = ? AND user_id = ?`,
		categoryID, userID,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.Description, &category.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves all categories owned by the user.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, created_at FROM categories WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Description, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// CreateBill persists a new unpaid bill.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	bill.IsPaid = false
	bill.PaymentID = ""
	bill.PaidDate = 0

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if bill.CategoryID != "" {
			if err := categoryExists(ctx, tx, bill.UserID, bill.CategoryID); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO bills (id, user_id, category_id, name, description, amount, due_date, is_paid, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
			bill.ID, bill.UserID, nullIfEmpty(bill.CategoryID), bill.Name, bill.Description,
			bill.Amount, bill.DueDate, bill.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}
		return nil
	})
}

// GetBill retrieves one of the user's bills.
func (s *SQLiteStore) GetBill(ctx context.Context, userID, billID string) (*models.Bill, error) {
	return getBill(ctx, s.db, userID, billID)
}

func getBill(ctx context.Context, q queryer, userID, billID string) (*models.Bill, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+billColumns+` FROM bills WHERE id = ? AND user_id = ?`,
		billID, userID,
	)
	bill, err := scanBill(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// ListBills retrieves the user's bills, soonest due first.
func (s *SQLiteStore) ListBills(ctx context.Context, userID string, unpaidOnly bool) ([]*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE user_id = ?`
	if unpaidOnly {
		query += ` AND is_paid = 0`
	}
	query += ` ORDER BY due_date, created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// ListDueBills retrieves unpaid bills of all users due before the cutoff.
func (s *SQLiteStore) ListDueBills(ctx context.Context, before time.Time) ([]*models.DueBill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.category_id, b.payment_id, b.name, b.description, b.amount,
		        b.due_date, b.is_paid, b.paid_date, b.created_at, u.username, u.email
		 FROM bills b
		 INNER JOIN users u ON u.id = b.user_id
		 WHERE b.is_paid = 0 AND b.due_date < ?
		 ORDER BY b.due_date`,
		before.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list due bills: %w", err)
	}
	defer rows.Close()

	var due []*models.DueBill
	for rows.Next() {
		d := &models.DueBill{}
		var categoryID, paymentID sql.NullString
		var paidDate sql.NullInt64
		if err := rows.Scan(&d.ID, &d.UserID, &categoryID, &paymentID, &d.Name, &d.Description, &d.Amount,
			&d.DueDate, &d.IsPaid, &paidDate, &d.CreatedAt, &d.Username, &d.Email); err != nil {
			return nil, fmt.Errorf("failed to scan due bill: %w", err)
		}
		d.CategoryID = categoryID.String
		d.PaymentID = paymentID.String
		d.PaidDate = paidDate.Int64
		due = append(due, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate due bills: %w", err)
	}
	return due, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBill(row scanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var categoryID, paymentID sql.NullString
	var paidDate sql.NullInt64
	if err := row.Scan(&bill.ID, &bill.UserID, &categoryID, &paymentID, &bill.Name, &bill.Description,
		&bill.Amount, &bill.DueDate, &bill.IsPaid, &paidDate, &bill.CreatedAt); err != nil {
		return nil, err
	}
	bill.CategoryID = categoryID.String
	bill.PaymentID = paymentID.String
	bill.PaidDate = paidDate.Int64
	return bill, nil
}
