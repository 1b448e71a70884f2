package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

type Source string

const (
	SourceClientServices  Source = "client_services"
	SourceEmployeePayroll Source = "employee_payroll"
	SourceLoan            Source = "loan"
	SourceExpense         Source = "expense"
	SourceExtraIncome     Source = "extra_income"
)

type Contact struct {
	ID      *int64 `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Transaction is one derived ledger line. It is never persisted.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        Type
	Source      Source
	Contact     Contact
}

type Report struct {
	From         time.Time
	To           time.Time
	Transactions []Transaction
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	FinalBalance decimal.Decimal
}

// Aggregate merges the source lines into one report. Non-positive amounts are
// dropped, the rest are stable-sorted by date, and lines are never deduplicated
// across sources.
func Aggregate(from, to time.Time, sources ...[]Transaction) *Report {
	report := &Report{
		From:         from,
		To:           to,
		Transactions: []Transaction{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, source := range sources {
		for _, tx := range source {
			if !tx.Amount.IsPositive() {
				continue
			}
			tx.Amount = tx.Amount.Round(2)
			report.Transactions = append(report.Transactions, tx)
		}
	}

	sort.SliceStable(report.Transactions, func(i, j int) bool {
		return report.Transactions[i].Date.Before(report.Transactions[j].Date)
	})

	for _, tx := range report.Transactions {
		if tx.Type == TypeIncome {
			report.TotalIncome = report.TotalIncome.Add(tx.Amount)
		} else {
			report.TotalExpense = report.TotalExpense.Add(tx.Amount)
		}
	}
	report.FinalBalance = report.TotalIncome.Sub(report.TotalExpense)
	return report
}

// RunningTotals walks the report in order. fn receives each line with the
// cumulative income, expense and balance after it.
func (r *Report) RunningTotals(fn func(tx Transaction, income, expense, balance decimal.Decimal)) {
	income, expense := decimal.Zero, decimal.Zero
	for _, tx := range r.Transactions {
		if tx.Type == TypeIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
		fn(tx, income, expense, income.Sub(expense))
	}
}

func (r *Report) ToResponse() ReportResponse {
	resp := ReportResponse{
		From:         r.From.Format(dateLayout),
		To:           r.To.Format(dateLayout),
		Transactions: make([]TransactionResponse, 0, len(r.Transactions)),
		TotalIncome:  r.TotalIncome,
		TotalExpense: r.TotalExpense,
		FinalBalance: r.FinalBalance,
	}
	for _, tx := range r.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			Date:        tx.Date.Format(dateLayout),
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Source:      tx.Source,
			Contact:     tx.Contact,
		})
	}
	return resp
}
