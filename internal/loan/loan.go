package loan

import (
	"time"

	loanDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/loan"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
	StatusPaid     Status = "Paid"
)

type Loan struct {
	ID                 int64
	EmployeeID         int64
	PrincipalAmount    decimal.Decimal
	OutstandingBalance decimal.Decimal
	InstallmentCount   int
	Status             Status
	Reason             string
	RequestedAt        time.Time
	ApprovedAt         *time.Time
	ReviewedBy         *int64
	Version            int64
	Repayments         []Repayment
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Repayment struct {
	ID           int64           `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	SettlementID *int64          `json:"settlementId,omitempty"`
}

func NewLoan(employeeID int64, principal decimal.Decimal, installments int, reason string, now time.Time) *Loan {
	principal = principal.Round(2)
	return &Loan{
		EmployeeID:         employeeID,
		PrincipalAmount:    principal,
		OutstandingBalance: principal,
		InstallmentCount:   installments,
		Status:             StatusPending,
		Reason:             reason,
		RequestedAt:        now,
		Version:            1,
	}
}

// ComputeInstallment is the per-period deduction: principal / installments, capped at
// the outstanding balance. A nil loan deducts nothing.
func ComputeInstallment(l *Loan) decimal.Decimal {
	if l == nil || l.InstallmentCount <= 0 || !l.OutstandingBalance.IsPositive() {
		return decimal.Zero
	}
	installment := l.PrincipalAmount.Div(decimal.NewFromInt(int64(l.InstallmentCount))).Round(2)
	return decimal.Min(installment, l.OutstandingBalance)
}

// ApplyRepayment records a repayment and reports whether it paid the loan off.
// The balance never goes below zero.
func (l *Loan) ApplyRepayment(amount decimal.Decimal, settlementID *int64, date time.Time) (Repayment, bool) {
	repayment := Repayment{
		Amount:       amount.Round(2),
		Date:         date,
		SettlementID: settlementID,
	}
	l.Repayments = append(l.Repayments, repayment)

	l.OutstandingBalance = l.OutstandingBalance.Sub(repayment.Amount)
	if !l.OutstandingBalance.IsPositive() {
		l.OutstandingBalance = decimal.Zero
		l.Status = StatusPaid
		return repayment, true
	}
	return repayment, false
}

func (l *Loan) Approve(at time.Time, reviewer *int64) {
	l.Status = StatusApproved
	l.ApprovedAt = &at
	l.ReviewedBy = reviewer
}

func (l *Loan) Reject(reviewer *int64) {
	l.Status = StatusRejected
	l.ReviewedBy = reviewer
}

func (l *Loan) ToResponse() LoanResponse {
	resp := LoanResponse{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		PrincipalAmount:    l.PrincipalAmount,
		OutstandingBalance: l.OutstandingBalance,
		InstallmentCount:   l.InstallmentCount,
		Installment:        ComputeInstallment(l),
		Status:             l.Status,
		Reason:             l.Reason,
		RequestedAt:        l.RequestedAt,
		ApprovedAt:         l.ApprovedAt,
		Repayments:         l.Repayments,
	}
	if resp.Repayments == nil {
		resp.Repayments = []Repayment{}
	}
	return resp
}

func ToDataModel(l *Loan) *loanDatamodel.Loan {
	return &loanDatamodel.Loan{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		PrincipalAmount:    l.PrincipalAmount,
		OutstandingBalance: l.OutstandingBalance,
		InstallmentCount:   l.InstallmentCount,
		Status:             string(l.Status),
		Reason:             l.Reason,
		RequestedAt:        l.RequestedAt,
		ApprovedAt:         l.ApprovedAt,
		ReviewedBy:         l.ReviewedBy,
		Version:            l.Version,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func FromDataModel(l *loanDatamodel.Loan) *Loan {
	out := &Loan{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		PrincipalAmount:    l.PrincipalAmount,
		OutstandingBalance: l.OutstandingBalance,
		InstallmentCount:   l.InstallmentCount,
		Status:             Status(l.Status),
		Reason:             l.Reason,
		RequestedAt:        l.RequestedAt,
		ApprovedAt:         l.ApprovedAt,
		ReviewedBy:         l.ReviewedBy,
		Version:            l.Version,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
	for _, r := range l.Repayments {
		out.Repayments = append(out.Repayments, RepaymentFromDataModel(&r))
	}
	return out
}

func RepaymentFromDataModel(r *loanDatamodel.LoanRepayment) Repayment {
	return Repayment{
		ID:           r.ID,
		Amount:       r.Amount,
		Date:         r.RepaidOn,
		SettlementID: r.SettlementID,
	}
}

func RepaymentToDataModel(loanID int64, r Repayment) *loanDatamodel.LoanRepayment {
	return &loanDatamodel.LoanRepayment{
		LoanID:       loanID,
		Amount:       r.Amount,
		RepaidOn:     r.Date,
		SettlementID: r.SettlementID,
	}
}
