package timeentry

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const dateLayout = validation.DateLayout

// TimeEntryDTO is the submission shape. JSON names follow the field names used by the
// existing timesheet clients.
type TimeEntryDTO struct {
	EmployeeID           int64            `json:"employeeId"`
	ClientID             *int64           `json:"clientId,omitempty"`
	Date                 string           `json:"date"`
	StartTime            string           `json:"horaInicio"`
	EndTime              string           `json:"horaFin"`
	HourlyRate           *decimal.Decimal `json:"valorHora,omitempty"`
	UnpaidLunchMinutes   int              `json:"minutosAlmuerzoSinPago"`
	IsHoliday            bool             `json:"festivo"`
	LunchDeductionAmount decimal.Decimal  `json:"descuentoAlmuerzo"`
	LoanDeductionAmount  decimal.Decimal  `json:"totalLoanDeducted"`
}

// Validate checks shape only; money rules are enforced by Calculate.
func (d *TimeEntryDTO) Validate() (time.Time, error) {
	v := validation.NewValidator()
	v.Field("employeeId", d.EmployeeID).MinInt(1, internal.ErrCodeValidationFailed)
	v.Field("date", d.Date).Required()
	v.Field("horaInicio", d.StartTime).Required().Clock()
	v.Field("horaFin", d.EndTime).Required().Clock()
	v.Field("minutosAlmuerzoSinPago", d.UnpaidLunchMinutes).NonNegative(internal.ErrCodeInvalidLunch)
	if d.HourlyRate != nil {
		v.Field("valorHora", *d.HourlyRate).NonNegative(internal.ErrCodeInvalidRate)
	}
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, appErr
	}

	workDate, appErr := validation.ParseDate("date", d.Date)
	if appErr != nil {
		return time.Time{}, appErr
	}
	return workDate, nil
}

func (d *TimeEntryDTO) payInput(rate decimal.Decimal) PayInput {
	return PayInput{
		StartTime:            d.StartTime,
		EndTime:              d.EndTime,
		HourlyRate:           rate,
		UnpaidLunchMinutes:   d.UnpaidLunchMinutes,
		LunchDeductionAmount: d.LunchDeductionAmount,
		LoanDeductionAmount:  d.LoanDeductionAmount,
		IsHoliday:            d.IsHoliday,
	}
}

// PreviewDTO prices a shift without storing it. EmployeeID is optional and only
// used to fall back to the employee's default rate.
type PreviewDTO struct {
	EmployeeID           int64            `json:"employeeId,omitempty"`
	StartTime            string           `json:"horaInicio"`
	EndTime              string           `json:"horaFin"`
	HourlyRate           *decimal.Decimal `json:"valorHora,omitempty"`
	UnpaidLunchMinutes   int              `json:"minutosAlmuerzoSinPago"`
	IsHoliday            bool             `json:"festivo"`
	LunchDeductionAmount decimal.Decimal  `json:"descuentoAlmuerzo"`
	LoanDeductionAmount  decimal.Decimal  `json:"totalLoanDeducted"`
}

type ListFilter struct {
	EmployeeID *int64
	ClientID   *int64
	// StaffOfClientID keeps entries whose employee belongs to the client.
	StaffOfClientID *int64
	Status          Status
	From            *time.Time
	To              *time.Time
}

type TimeEntryResponse struct {
	ID                   int64           `json:"id"`
	EmployeeID           int64           `json:"employeeId"`
	ClientID             *int64          `json:"clientId,omitempty"`
	Date                 string          `json:"date"`
	StartTime            string          `json:"horaInicio"`
	EndTime              string          `json:"horaFin"`
	IsHoliday            bool            `json:"festivo"`
	HourlyRate           decimal.Decimal `json:"valorHora"`
	UnpaidLunchMinutes   int             `json:"minutosAlmuerzoSinPago"`
	LunchDeductionAmount decimal.Decimal `json:"descuentoAlmuerzo"`
	LoanDeductionAmount  decimal.Decimal `json:"totalLoanDeducted"`
	GrossHours           decimal.Decimal `json:"grossHours"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	NetAmountBeforeLoan  decimal.Decimal `json:"netAmountBeforeLoan"`
	NetAmountFinal       decimal.Decimal `json:"netAmountFinal"`
	Status               Status          `json:"status"`
	IsLocked             bool            `json:"isLocked"`
	SettlementID         *int64          `json:"settlementId,omitempty"`
	PaymentDate          *string         `json:"paymentDate,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type TimeEntriesResponse struct {
	TimeEntries []TimeEntryResponse `json:"timeEntries"`
}
