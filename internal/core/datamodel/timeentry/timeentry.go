package timeentry

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeEntry struct {
	ID                   int64           `gorm:"primaryKey"`
	EmployeeID           int64           `gorm:"column:employee_id;not null;index;uniqueIndex:ux_time_entries_shift,priority:1"`
	ClientID             *int64          `gorm:"column:client_id;index;uniqueIndex:ux_time_entries_shift,priority:3"`
	WorkDate             time.Time       `gorm:"column:work_date;type:date;not null;index;uniqueIndex:ux_time_entries_shift,priority:2"`
	StartTime            string          `gorm:"column:start_time;size:5;not null;uniqueIndex:ux_time_entries_shift,priority:4"`
	EndTime              string          `gorm:"column:end_time;size:5;not null"`
	IsHoliday            bool            `gorm:"column:is_holiday;not null;default:false"`
	HourlyRate           decimal.Decimal `gorm:"column:hourly_rate;type:numeric(14,2);not null"`
	UnpaidLunchMinutes   int             `gorm:"column:unpaid_lunch_minutes;not null;default:0"`
	LunchDeductionAmount decimal.Decimal `gorm:"column:lunch_deduction_amount;type:numeric(14,2);not null"`
	GrossHours           decimal.Decimal `gorm:"column:gross_hours;type:numeric(8,2);not null"`
	Subtotal             decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null"`
	NetAmountBeforeLoan  decimal.Decimal `gorm:"column:net_amount_before_loan;type:numeric(14,2);not null"`
	LoanDeductionAmount  decimal.Decimal `gorm:"column:loan_deduction_amount;type:numeric(14,2);not null"`
	NetAmountFinal       decimal.Decimal `gorm:"column:net_amount_final;type:numeric(14,2);not null"`
	Status               string          `gorm:"column:status;size:16;not null;default:OPEN;index"`
	IsLocked             bool            `gorm:"column:is_locked;not null;default:false"`
	SettlementID         *int64          `gorm:"column:settlement_id;index"`
	PaymentDate          *time.Time      `gorm:"column:payment_date;type:date"`
	CreatedBy            *int64          `gorm:"column:created_by"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
