package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Loan struct {
	ID                 int64           `gorm:"primaryKey"`
	EmployeeID         int64           `gorm:"column:employee_id;not null;index"`
	PrincipalAmount    decimal.Decimal `gorm:"column:principal_amount;type:numeric(14,2);not null"`
	OutstandingBalance decimal.Decimal `gorm:"column:outstanding_balance;type:numeric(14,2);not null"`
	InstallmentCount   int             `gorm:"column:installment_count;not null"`
	Status             string          `gorm:"column:status;size:16;not null;default:Pending;index"`
	Reason             string          `gorm:"column:reason"`
	RequestedAt        time.Time       `gorm:"column:requested_at;not null"`
	ApprovedAt         *time.Time      `gorm:"column:approved_at;type:date"`
	ReviewedBy         *int64          `gorm:"column:reviewed_by"`
	Version            int64           `gorm:"column:version;not null;default:1"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Repayments []LoanRepayment `gorm:"foreignKey:LoanID"`
}

func (Loan) TableName() string {
	return "loans"
}

type LoanRepayment struct {
	ID           int64           `gorm:"primaryKey"`
	LoanID       int64           `gorm:"column:loan_id;not null;index"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	RepaidOn     time.Time       `gorm:"column:repaid_on;type:date;not null"`
	SettlementID *int64          `gorm:"column:settlement_id"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (LoanRepayment) TableName() string {
	return "loan_repayments"
}
