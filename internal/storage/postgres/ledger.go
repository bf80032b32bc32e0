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

const balanceColumns = `id, user_id, amount, initial_amount, created_at, updated_at`

// CreateBalance inserts the user's balance.
func (s *Store) CreateBalance(ctx context.Context, balance *models.Balance) error {
	if balance.ID == "" {
		balance.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	balance.CreatedAt = now
	balance.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO balances (`+balanceColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		balance.ID, balance.UserID, balance.Amount, balance.InitialAmount, balance.CreatedAt, balance.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("balance for user %s: %w", balance.UserID, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("insert balance: %w", err)
	}
	return nil
}

// GetBalance retrieves the user's balance.
func (s *Store) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	balance, err := scanBalance(s.pool.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM balances WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("balance for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// adjustBalance applies delta in one statement. The row lock taken by the
// UPDATE serializes concurrent adjustments across server processes.
func adjustBalance(ctx context.Context, tx pgx.Tx, userID string, delta float64) (*models.Balance, error) {
	balance, err := scanBalance(tx.QueryRow(ctx,
		`UPDATE balances SET amount = amount + $1, updated_at = $2 WHERE user_id = $3
		 RETURNING `+balanceColumns,
		delta, time.Now().Unix(), userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNoBalance)
	}
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}
	return balance, nil
}

// RecordIncome inserts the income and credits the balance in one transaction.
func (s *Store) RecordIncome(ctx context.Context, income *models.Income) (*models.Balance, error) {
	if income.ID == "" {
		income.ID = uuid.New().String()
	}
	if income.ReceivedDate == 0 {
		income.ReceivedDate = time.Now().Unix()
	}

	var balance *models.Balance
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if income.CategoryID != "" {
			if err := categoryExists(ctx, tx, income.UserID, income.CategoryID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO incomes (id, user_id, category_id, name, description, amount, received_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			income.ID, income.UserID, nullIfEmpty(income.CategoryID), income.Name, income.Description,
			income.Amount, income.ReceivedDate,
		)
		if err != nil {
			return fmt.Errorf("insert income: %w", err)
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
// cited bill in one transaction.
func (s *Store) RecordPayment(ctx context.Context, payment *models.Payment) (*models.Balance, *models.Bill, error) {
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
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if payment.CategoryID != "" {
			if err := categoryExists(ctx, tx, payment.UserID, payment.CategoryID); err != nil {
				return err
			}
		}
		if payment.BillID != "" {
			var err error
			bill, err = getBill(ctx, tx, payment.UserID, payment.BillID, true)
			if err != nil {
				return err
			}
			if bill.IsPaid {
				return fmt.Errorf("bill %s: %w", bill.ID, storage.ErrBillPaid)
			}
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO payments (id, user_id, category_id, bill_id, name, description, amount, paid_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			payment.ID, payment.UserID, nullIfEmpty(payment.CategoryID), nullIfEmpty(payment.BillID),
			payment.Name, payment.Description, payment.Amount, payment.PaidDate,
		)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		balance, err = adjustBalance(ctx, tx, payment.UserID, -payment.Amount)
		if err != nil {
			return err
		}
		if bill == nil {
			return nil
		}

		tag, err := tx.Exec(ctx,
			`UPDATE bills SET is_paid = TRUE, payment_id = $1, paid_date = $2
			 WHERE id = $3 AND user_id = $4 AND NOT is_paid`,
			payment.ID, payment.PaidDate, bill.ID, payment.UserID,
		)
		if err != nil {
			return fmt.Errorf("settle bill: %w", err)
		}
		if tag.RowsAffected() == 0 {
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
func (s *Store) ListIncomes(ctx context.Context, userID string) ([]*models.Income, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, category_id, name, description, amount, received_date
		 FROM incomes WHERE user_id = $1 ORDER BY received_date DESC, seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*models.Income
	for rows.Next() {
		income := &models.Income{}
		var categoryID *string
		if err := rows.Scan(&income.ID, &income.UserID, &categoryID, &income.Name, &income.Description,
			&income.Amount, &income.ReceivedDate); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		income.CategoryID = deref(categoryID)
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

// ListPayments retrieves the user's payments, newest first.
func (s *Store) ListPayments(ctx context.Context, userID string) ([]*models.Payment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, category_id, bill_id, name, description, amount, paid_date
		 FROM payments WHERE user_id = $1 ORDER BY paid_date DESC, seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var categoryID, billID *string
		if err := rows.Scan(&payment.ID, &payment.UserID, &categoryID, &billID, &payment.Name,
			&payment.Description, &payment.Amount, &payment.PaidDate); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payment.CategoryID = deref(categoryID)
		payment.BillID = deref(billID)
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// SumLedger totals the user's incomes and payments.
func (s *Store) SumLedger(ctx context.Context, userID string) (float64, float64, error) {
	var incomes, payments float64
	err := s.pool.QueryRow(ctx,
		`SELECT
		    (SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE user_id = $1),
		    (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id = $1)`,
		userID,
	).Scan(&incomes, &payments)
	if err != nil {
		return 0, 0, fmt.Errorf("sum ledger: %w", err)
	}
	return incomes, payments, nil
}

func scanBalance(row pgx.Row) (*models.Balance, error) {
	balance := &models.Balance{}
	if err := row.Scan(&balance.ID, &balance.UserID, &balance.Amount, &balance.InitialAmount,
		&balance.CreatedAt, &balance.UpdatedAt); err != nil {
		return nil, err
	}
	return balance, nil
}
