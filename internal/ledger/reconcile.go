package ledger

import (
	"context"
	"log/slog"
	"math"
)

// driftTolerance absorbs floating point noise from summing many amounts.
const driftTolerance = 0.005

// Reconciliation compares the stored running balance against the amount
// derived from the user's history.
type Reconciliation struct {
	UserID        string
	InitialAmount float64
	TotalIncomes  float64
	TotalPayments float64

	// Stored is the incrementally maintained balance.
	Stored float64

	// Derived is InitialAmount + TotalIncomes - TotalPayments.
	Derived float64

	// Drift is Stored - Derived. Zero unless an update was lost or applied twice.
	Drift float64
}

// Consistent reports whether the stored balance matches history.
func (r Reconciliation) Consistent() bool {
	return math.Abs(r.Drift) < driftTolerance
}

// DeriveBalance computes a balance from history instead of incremental updates.
func DeriveBalance(initialAmount, incomes, payments float64) float64 {
	return initialAmount + incomes - payments
}

// Reconcile recomputes the user's balance from recorded incomes and
// payments and reports any drift from the stored amount. It never writes.
//
// The stored balance stays the source of truth for reads. Deriving it on
// every read would remove drift entirely but makes reads scale with the
// user's history, so summation is only used here as a check.
func (l *Ledger) Reconcile(ctx context.Context, userID string) (*Reconciliation, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	// Hold the user's lock so no mutation lands between the two reads.
	unlock := l.locks.Lock(userID)
	defer unlock()

	balance, err := l.store.GetBalance(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	incomes, payments, err := l.store.SumLedger(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}

	r := &Reconciliation{
		UserID:        userID,
		InitialAmount: balance.InitialAmount,
		TotalIncomes:  incomes,
		TotalPayments: payments,
		Stored:        balance.Amount,
		Derived:       DeriveBalance(balance.InitialAmount, incomes, payments),
	}
	r.Drift = r.Stored - r.Derived

	if !r.Consistent() {
		slog.Warn("Balance drift detected",
			"user_id", userID,
			"stored", r.Stored,
			"derived", r.Derived,
			"drift", r.Drift,
		)
	}
	return r, nil
}
