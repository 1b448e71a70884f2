package ledger_test

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func tx(d int, amount string, typ ledger.Type, source ledger.Source, desc string) ledger.Transaction {
	return ledger.Transaction{Date: day(d), Amount: dec(amount), Type: typ, Source: source, Description: desc}
}

var _ = Describe("Aggregate", func() {
	It("should merge, order by date and total every source", func() {
		clientIncome := []ledger.Transaction{tx(10, "80000", ledger.TypeIncome, ledger.SourceClientServices, "acme")}
		payroll := []ledger.Transaction{tx(5, "40000", ledger.TypeExpense, ledger.SourceEmployeePayroll, "courier")}
		loans := []ledger.Transaction{tx(7, "300000", ledger.TypeExpense, ledger.SourceLoan, "loan")}
		expenses := []ledger.Transaction{tx(10, "15000.50", ledger.TypeExpense, ledger.SourceExpense, "fuel")}
		extra := []ledger.Transaction{tx(1, "500000", ledger.TypeIncome, ledger.SourceExtraIncome, "capital")}

		report := ledger.Aggregate(day(1), day(31), clientIncome, payroll, loans, expenses, extra)

		descriptions := make([]string, 0, len(report.Transactions))
		for _, t := range report.Transactions {
			descriptions = append(descriptions, t.Description)
		}
		Expect(descriptions).To(Equal([]string{"capital", "courier", "loan", "acme", "fuel"}))
		Expect(report.TotalIncome.Equal(dec("580000"))).To(BeTrue())
		Expect(report.TotalExpense.Equal(dec("355000.50"))).To(BeTrue())
		Expect(report.FinalBalance.Equal(dec("224999.50"))).To(BeTrue())
	})

	It("should drop zero and negative amounts", func() {
		report := ledger.Aggregate(day(1), day(31), []ledger.Transaction{
			tx(2, "0", ledger.TypeIncome, ledger.SourceClientServices, "zero"),
			tx(3, "-100", ledger.TypeExpense, ledger.SourceEmployeePayroll, "negative"),
			tx(4, "100", ledger.TypeExpense, ledger.SourceExpense, "kept"),
		})

		Expect(report.Transactions).To(HaveLen(1))
		Expect(report.Transactions[0].Description).To(Equal("kept"))
		Expect(report.FinalBalance.Equal(dec("-100"))).To(BeTrue())
	})

	It("should keep same-day lines in source order", func() {
		report := ledger.Aggregate(day(1), day(31),
			[]ledger.Transaction{tx(3, "1", ledger.TypeIncome, ledger.SourceClientServices, "first")},
			[]ledger.Transaction{tx(3, "1", ledger.TypeExpense, ledger.SourceExpense, "second")},
		)

		Expect(report.Transactions[0].Description).To(Equal("first"))
		Expect(report.Transactions[1].Description).To(Equal("second"))
	})

	It("should return an empty, balanced report when nothing matched", func() {
		report := ledger.Aggregate(day(1), day(31))

		Expect(report.Transactions).To(BeEmpty())
		Expect(report.FinalBalance.IsZero()).To(BeTrue())
		Expect(report.ToResponse().Transactions).NotTo(BeNil())
	})

	It("should walk running totals in order", func() {
		report := ledger.Aggregate(day(1), day(31), []ledger.Transaction{
			tx(1, "100", ledger.TypeIncome, ledger.SourceExtraIncome, "a"),
			tx(2, "30", ledger.TypeExpense, ledger.SourceExpense, "b"),
			tx(3, "50", ledger.TypeIncome, ledger.SourceExtraIncome, "c"),
		})

		var balances []string
		report.RunningTotals(func(_ ledger.Transaction, income, expense, balance decimal.Decimal) {
			balances = append(balances, income.String()+"/"+expense.String()+"/"+balance.String())
		})
		Expect(balances).To(Equal([]string{"100/0/100", "100/30/70", "150/30/120"}))
	})
})
