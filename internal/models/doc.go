// Package models defines the core domain models for mefinance.
//
// # Records
//
//   - User: registered account; every other record is scoped to one user
//   - Balance: the user's running total, at most one per user
//   - Category: user-defined label attachable to bills, incomes and payments
//   - Bill: an obligation with a due date, settled by a payment
//   - Income: cash in, credited to the balance when recorded
//   - Payment: cash out, debited from the balance when recorded
//
// # Design Principles
//
// 1. **Flat records**: relationships are ID strings, never nested structs
// 2. **Optional references**: an empty CategoryID or BillID means "none"
// 3. **Ledger-owned mutation**: Balance.Amount only changes through
//    internal/ledger, which applies the delta atomically in storage
package models
