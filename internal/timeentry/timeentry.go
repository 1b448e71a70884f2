package timeentry

import (
	"time"

	timeentryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/timeentry"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusClaimed Status = "CLAIMED"
	StatusPaid    Status = "PAID"
)

type TimeEntry struct {
	ID                   int64
	EmployeeID           int64
	ClientID             *int64
	WorkDate             time.Time
	StartTime            string
	EndTime              string
	IsHoliday            bool
	HourlyRate           decimal.Decimal
	UnpaidLunchMinutes   int
	LunchDeductionAmount decimal.Decimal
	GrossHours           decimal.Decimal
	Subtotal             decimal.Decimal
	NetAmountBeforeLoan  decimal.Decimal
	LoanDeductionAmount  decimal.Decimal
	NetAmountFinal       decimal.Decimal
	Status               Status
	IsLocked             bool
	SettlementID         *int64
	PaymentDate          *time.Time
	CreatedBy            *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsEditable is true only for open, unlocked entries.
func (t *TimeEntry) IsEditable() bool {
	return t.Status == StatusOpen && !t.IsLocked
}

func (t *TimeEntry) applyPay(in PayInput, pay PayResult) {
	t.StartTime = in.StartTime
	t.EndTime = in.EndTime
	t.IsHoliday = in.IsHoliday
	t.HourlyRate = in.HourlyRate.Round(2)
	t.UnpaidLunchMinutes = in.UnpaidLunchMinutes
	t.LunchDeductionAmount = in.LunchDeductionAmount.Round(2)
	t.LoanDeductionAmount = in.LoanDeductionAmount.Round(2)
	t.GrossHours = pay.GrossHours
	t.Subtotal = pay.Subtotal
	t.NetAmountBeforeLoan = pay.NetAmountBeforeLoan
	t.NetAmountFinal = pay.NetAmountFinal
}

func (t *TimeEntry) ToResponse() TimeEntryResponse {
	return TimeEntryResponse{
		ID:                   t.ID,
		EmployeeID:           t.EmployeeID,
		ClientID:             t.ClientID,
		Date:                 t.WorkDate.Format(dateLayout),
		StartTime:            t.StartTime,
		EndTime:              t.EndTime,
		IsHoliday:            t.IsHoliday,
		HourlyRate:           t.HourlyRate,
		UnpaidLunchMinutes:   t.UnpaidLunchMinutes,
		LunchDeductionAmount: t.LunchDeductionAmount,
		LoanDeductionAmount:  t.LoanDeductionAmount,
		GrossHours:           t.GrossHours,
		Subtotal:             t.Subtotal,
		NetAmountBeforeLoan:  t.NetAmountBeforeLoan,
		NetAmountFinal:       t.NetAmountFinal,
		Status:               t.Status,
		IsLocked:             t.IsLocked,
		SettlementID:         t.SettlementID,
		PaymentDate:          formatOptionalDate(t.PaymentDate),
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

func ToDataModel(t *TimeEntry) *timeentryDatamodel.TimeEntry {
	return &timeentryDatamodel.TimeEntry{
		ID:                   t.ID,
		EmployeeID:           t.EmployeeID,
		ClientID:             t.ClientID,
		WorkDate:             t.WorkDate,
		StartTime:            t.StartTime,
		EndTime:              t.EndTime,
		IsHoliday:            t.IsHoliday,
		HourlyRate:           t.HourlyRate,
		UnpaidLunchMinutes:   t.UnpaidLunchMinutes,
		LunchDeductionAmount: t.LunchDeductionAmount,
		GrossHours:           t.GrossHours,
		Subtotal:             t.Subtotal,
		NetAmountBeforeLoan:  t.NetAmountBeforeLoan,
		LoanDeductionAmount:  t.LoanDeductionAmount,
		NetAmountFinal:       t.NetAmountFinal,
		Status:               string(t.Status),
		IsLocked:             t.IsLocked,
		SettlementID:         t.SettlementID,
		PaymentDate:          t.PaymentDate,
		CreatedBy:            t.CreatedBy,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

func FromDataModel(t *timeentryDatamodel.TimeEntry) *TimeEntry {
	return &TimeEntry{
		ID:                   t.ID,
		EmployeeID:           t.EmployeeID,
		ClientID:             t.ClientID,
		WorkDate:             t.WorkDate.UTC(),
		StartTime:            t.StartTime,
		EndTime:              t.EndTime,
		IsHoliday:            t.IsHoliday,
		HourlyRate:           t.HourlyRate,
		UnpaidLunchMinutes:   t.UnpaidLunchMinutes,
		LunchDeductionAmount: t.LunchDeductionAmount,
		GrossHours:           t.GrossHours,
		Subtotal:             t.Subtotal,
		NetAmountBeforeLoan:  t.NetAmountBeforeLoan,
		LoanDeductionAmount:  t.LoanDeductionAmount,
		NetAmountFinal:       t.NetAmountFinal,
		Status:               Status(t.Status),
		IsLocked:             t.IsLocked,
		SettlementID:         t.SettlementID,
		PaymentDate:          t.PaymentDate,
		CreatedBy:            t.CreatedBy,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}
