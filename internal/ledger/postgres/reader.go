package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/frahmantamala/courier-payroll/internal/ledger"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var _ ledger.SourceReader = (*Reader)(nil)

const clientIncomeQuery = `
SELECT e.client_id AS contact_id, t.work_date AS date, SUM(t.net_amount_final) AS amount,
	c.name AS contact_name, COALESCE(c.phone, '') AS contact_phone, COALESCE(c.address, '') AS contact_address
FROM time_entries t
JOIN employees e ON e.id = t.employee_id
JOIN clients c ON c.id = e.client_id
WHERE e.kind = 'client_staff' AND t.work_date >= ? AND t.work_date <= ?
GROUP BY e.client_id, t.work_date, c.name, c.phone, c.address`

const employeePayrollQuery = `
SELECT e.id AS contact_id, t.work_date AS date, SUM(t.net_amount_final) AS amount,
	e.full_name AS contact_name, COALESCE(e.phone, '') AS contact_phone, COALESCE(e.address, '') AS contact_address
FROM time_entries t
JOIN employees e ON e.id = t.employee_id
WHERE e.kind <> 'client_staff' AND t.work_date >= ? AND t.work_date <= ?
GROUP BY e.id, t.work_date, e.full_name, e.phone, e.address`

const loanDisbursementQuery = `
SELECT e.id AS contact_id, l.approved_at AS date, l.principal_amount AS amount,
	e.full_name AS contact_name, COALESCE(e.phone, '') AS contact_phone, COALESCE(e.address, '') AS contact_address
FROM loans l
JOIN employees e ON e.id = l.employee_id
WHERE l.status IN ('Approved', 'Paid') AND l.approved_at >= ? AND l.approved_at <= ?`

const expenseQuery = `
SELECT expense_date AS date, amount, description, COALESCE(payee, '') AS contact_name
FROM expenses
WHERE expense_date >= ? AND expense_date <= ?`

const extraIncomeQuery = `
SELECT income_date AS date, amount, description, COALESCE(payer, '') AS contact_name
FROM extra_incomes
WHERE income_date >= ? AND income_date <= ?`

// sourceRow is the common projection every ledger query scans into.
type sourceRow struct {
	ContactID      sql.NullInt64   `db:"contact_id"`
	Date           scannedDate     `db:"date"`
	Amount         decimal.Decimal `db:"amount"`
	Description    string          `db:"description"`
	ContactName    string          `db:"contact_name"`
	ContactPhone   string          `db:"contact_phone"`
	ContactAddress string          `db:"contact_address"`
}

// Reader runs the ledger's read-only aggregation queries through sqlx.
type Reader struct {
	db *sqlx.DB
}

func NewReader(db *sqlx.DB) *Reader {
	return &Reader{db: db}
}

func (r *Reader) ClientIncome(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	rows, err := r.query(ctx, clientIncomeQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("client income: %w", err)
	}
	return toTransactions(rows, ledger.TypeIncome, ledger.SourceClientServices, func(row sourceRow) string {
		return "Client services: " + row.ContactName
	}), nil
}

func (r *Reader) EmployeePayroll(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	rows, err := r.query(ctx, employeePayrollQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("employee payroll: %w", err)
	}
	return toTransactions(rows, ledger.TypeExpense, ledger.SourceEmployeePayroll, func(row sourceRow) string {
		return "Payroll: " + row.ContactName
	}), nil
}

func (r *Reader) LoanDisbursements(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	rows, err := r.query(ctx, loanDisbursementQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("loan disbursements: %w", err)
	}
	return toTransactions(rows, ledger.TypeExpense, ledger.SourceLoan, func(row sourceRow) string {
		return "Loan disbursed: " + row.ContactName
	}), nil
}

func (r *Reader) Expenses(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	rows, err := r.query(ctx, expenseQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}
	return toTransactions(rows, ledger.TypeExpense, ledger.SourceExpense, nil), nil
}

func (r *Reader) ExtraIncomes(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	rows, err := r.query(ctx, extraIncomeQuery, from, to)
	if err != nil {
		return nil, fmt.Errorf("extra incomes: %w", err)
	}
	return toTransactions(rows, ledger.TypeIncome, ledger.SourceExtraIncome, nil), nil
}

func (r *Reader) query(ctx context.Context, query string, from, to time.Time) ([]sourceRow, error) {
	var rows []sourceRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), from, to); err != nil {
		return nil, err
	}
	return rows, nil
}

func toTransactions(rows []sourceRow, typ ledger.Type, source ledger.Source, describe func(sourceRow) string) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := ledger.Transaction{
			Date:        row.Date.Time,
			Description: row.Description,
			Amount:      row.Amount.Round(2),
			Type:        typ,
			Source:      source,
			Contact: ledger.Contact{
				Name:    row.ContactName,
				Phone:   row.ContactPhone,
				Address: row.ContactAddress,
			},
		}
		if describe != nil {
			tx.Description = describe(row)
		}
		if row.ContactID.Valid {
			id := row.ContactID.Int64
			tx.Contact.ID = &id
		}
		out = append(out, tx)
	}
	return out
}
