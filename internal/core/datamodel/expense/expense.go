package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int64           `gorm:"primaryKey"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	ExpenseDate time.Time       `gorm:"column:expense_date;type:date;not null;index"`
	Payee       string          `gorm:"column:payee"`
	CreatedBy   *int64          `gorm:"column:created_by"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}

type ExtraIncome struct {
	ID          int64           `gorm:"primaryKey"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	IncomeDate  time.Time       `gorm:"column:income_date;type:date;not null;index"`
	Payer       string          `gorm:"column:payer"`
	CreatedBy   *int64          `gorm:"column:created_by"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExtraIncome) TableName() string {
	return "extra_incomes"
}
