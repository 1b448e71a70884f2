package loan

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type RequestLoanDTO struct {
	EmployeeID       int64           `json:"employeeId"`
	PrincipalAmount  decimal.Decimal `json:"principalAmount"`
	InstallmentCount int             `json:"installmentCount"`
	Reason           string          `json:"reason"`
}

func (d RequestLoanDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", d.EmployeeID).MinInt(1, internal.ErrCodeValidationFailed)
	v.Field("principalAmount", d.PrincipalAmount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("installmentCount", d.InstallmentCount).Positive(internal.ErrCodeValidationFailed)
	v.Field("reason", d.Reason).MaxLength(500)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type ListFilter struct {
	EmployeeID *int64
	Status     Status
}

type LoanResponse struct {
	ID                 int64           `json:"id"`
	EmployeeID         int64           `json:"employeeId"`
	PrincipalAmount    decimal.Decimal `json:"principalAmount"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	InstallmentCount   int             `json:"installmentCount"`
	Installment        decimal.Decimal `json:"installment"`
	Status             Status          `json:"status"`
	Reason             string          `json:"reason,omitempty"`
	RequestedAt        time.Time       `json:"requestedAt"`
	ApprovedAt         *time.Time      `json:"approvedAt,omitempty"`
	Repayments         []Repayment     `json:"repayments"`
}

type LoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}
