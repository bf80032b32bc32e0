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

// CreateBalance persists the user's balance.
func (s *SQLiteStore) CreateBalance(ctx context.Context, balance *models.Balance) error {
	if balance.ID == "" {
		balance.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	balance.CreatedAt = now
	balance.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO balances (id, user_id, amount, initial_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		balance.ID, balance.UserID, balance.Amount, balance.InitialAmount, balance.CreatedAt, balance.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("balance for user %s: %w", balance.UserID, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

// GetBalance retrieves the user's balance.
func (s *SQLiteStore) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	return getBalance(ctx, s.db, userID)
}

func getBalance(ctx context.Context, q queryer, userID string) (*models.Balance, error) {
	balance := &models.Balance{}
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, amount, initial_amount, created_at, updated_at FROM balances WHERE user_id = ?`,
		userID,
	).Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.InitialAmount, &balance.CreatedAt, &balance.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("balance for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// adjustBalance applies delta to the stored amount in a single statement,
// so the read-modify-write never happens in Go.
func adjustBalance(ctx context.Context, tx *sql.Tx, userID string, delta float64) (*models.Balance, error) {
	result, err := tx.ExecContext(ctx,
		`UPDATE balances SET amount = amount + ?, updated_at = ? WHERE user_id = ?`,
		delta, time.Now().Unix(), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNoBalance)
	}
	return getBalance(ctx, tx, userID)
}

// RecordIncome inserts the income and credits the balance in one transaction.
func (s *SQLiteStore) RecordIncome(ctx context.Context, income *models.Income) (*models.Balance, error) {
	if income.ID == "" {
		income.ID = uuid.New().String()
	}
	if income.ReceivedDate == 0 {
		income.ReceivedDate = time.Now().Unix()
	}

	var balance *models.Balance
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if income.CategoryID != "" {
			if err := categoryExists(ctx, tx, income.UserID, income.CategoryID); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (id, user_id, category_id, name, description, amount, received_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			income.ID, income.UserID, nullIfEmpty(income.CategoryID), income.Name, income.Description,
			income.Amount, income.ReceivedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert income: %w", err)
		}

		balance, err = adjustBalance(ctx, tx, income.UserID, income.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// RecordPayment inserts the payment, debits the balance and settles the
// cited bill in one transaction. A failure at any step leaves the bill unpaid.
func (s *SQLiteStore) RecordPayment(ctx context.Context, payment *models.Payment) (*models.Balance, *models.Bill, error) {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaidDate == 0 {
		payment.PaidDate = time.Now().Unix()
	}

	var (
		balance *models.Balance
		bill    *models.Bill
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if payment.CategoryID != "" {
			if err := categoryExists(ctx, tx, payment.UserID, payment.CategoryID); err != nil {
				return err
			}
		}

		if payment.BillID != "" {
			var err error
			bill, err = getBill(ctx, tx, payment.UserID, payment.BillID)
			if err != nil {
				return err
			}
			if bill.IsPaid {
				return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrBillPaid)
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO payments (id, user_id, category_id, bill_id, name, description, amount, paid_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			payment.ID, payment.UserID, nullIfEmpty(payment.CategoryID), nullIfEmpty(payment.BillID),
			payment.Name, payment.Description, payment.Amount, payment.PaidDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		balance, err = adjustBalance(ctx, tx, payment.UserID, -payment.Amount)
		if err != nil {
			return err
		}

		if bill == nil {
			return nil
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE bills SET is_paid = 1, payment_id = ?, paid_date = ?
			 WHERE id = ? AND user_id = ? AND is_paid = 0`,
			payment.ID, payment.PaidDate, bill.ID, payment.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to settle bill: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to settle bill: %w", err)
		} else if n == 0 {
			return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrBillPaid)
		}
		bill.IsPaid = true
		bill.PaymentID = payment.ID
		bill.PaidDate = payment.PaidDate
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return balance, bill, nil
}

// ListIncomes retrieves the user's incomes, newest first.
func (s *SQLiteStore) ListIncomes(ctx context.Context, userID string) ([]*models.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, name, description, amount, received_date
		 FROM incomes WHERE user_id = ? ORDER BY received_date DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*models.Income
	for rows.Next() {
		income := &models.Income{}
		var categoryID sql.NullString
		if err := rows.Scan(&income.ID, &income.UserID, &categoryID, &income.Name, &income.Description,
			&income.Amount, &income.ReceivedDate); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		income.CategoryID = categoryID.String
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}
	return incomes, nil
}

// ListPayments retrieves the user's payments, newest first.
func (s *SQLiteStore) ListPayments(ctx context.Context, userID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, bill_id, name, description, amount, paid_date
		 FROM payments WHERE user_id = ? ORDER BY paid_date DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var categoryID, billID sql.NullString
		if err := rows.Scan(&payment.ID, &payment.UserID, &categoryID, &billID, &payment.Name,
			&payment.Description, &payment.Amount, &payment.PaidDate); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payment.CategoryID = categoryID.String
		payment.BillID = billID.String
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// SumLedger totals the user's incomes and payments.
func (s *SQLiteStore) SumLedger(ctx context.Context, userID string) (float64, float64, error) {
	var incomes, payments float64
	err := s.db.QueryRowContext(ctx,
		`SELECT
		    (SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = ?),
		    (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id = ?)`,
		userID, userID,
	).Scan(&incomes, &payments)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum ledger: %w", err)
	}
	return incomes, payments, nil
}
