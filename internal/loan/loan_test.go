package loan_test

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal/loan"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var _ = Describe("Loan ledger rules", func() {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	It("deducts nothing without a loan", func() {
		Expect(loan.ComputeInstallment(nil).IsZero()).To(BeTrue())
	})

	It("pays a 300000 loan off in three installments", func() {
		l := loan.NewLoan(1, dec("300000"), 3, "bike repair", now)
		l.Approve(now, nil)

		installment := loan.ComputeInstallment(l)
		Expect(installment.Equal(dec("100000"))).To(BeTrue())
		_, paid := l.ApplyRepayment(installment, nil, now)
		Expect(paid).To(BeFalse())
		Expect(l.OutstandingBalance.Equal(dec("200000"))).To(BeTrue())

		for i := 0; i < 2; i++ {
			_, paid = l.ApplyRepayment(loan.ComputeInstallment(l), nil, now)
		}
		Expect(paid).To(BeTrue())
		Expect(l.OutstandingBalance.IsZero()).To(BeTrue())
		Expect(l.Status).To(Equal(loan.StatusPaid))
		Expect(l.Repayments).To(HaveLen(3))
	})

	It("caps the installment at the outstanding balance", func() {
		l := loan.NewLoan(1, dec("100000"), 3, "", now)
		Expect(loan.ComputeInstallment(l).Equal(dec("33333.33"))).To(BeTrue())

		l.OutstandingBalance = dec("1000")
		Expect(loan.ComputeInstallment(l).Equal(dec("1000"))).To(BeTrue())
	})

	It("clears the remainder left by rounding on the final installment", func() {
		l := loan.NewLoan(1, dec("100000"), 3, "", now)
		for i := 0; i < 3; i++ {
			l.ApplyRepayment(loan.ComputeInstallment(l), nil, now)
		}
		Expect(l.OutstandingBalance.Equal(dec("0.01"))).To(BeTrue())
		_, paid := l.ApplyRepayment(loan.ComputeInstallment(l), nil, now)
		Expect(paid).To(BeTrue())
	})

	It("clamps an overpayment to zero", func() {
		l := loan.NewLoan(1, dec("50000"), 1, "", now)
		_, paid := l.ApplyRepayment(dec("80000"), nil, now)
		Expect(paid).To(BeTrue())
		Expect(l.OutstandingBalance.IsZero()).To(BeTrue())
	})
})
