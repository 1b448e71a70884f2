package expense

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = validation.DateLayout

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CreateExpenseDTO represents the request payload for recording an expense
type CreateExpenseDTO struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Payee       string          `json:"payee"`
}

// Validate checks the payload and returns the parsed date.
func (dto CreateExpenseDTO) Validate() (time.Time, error) {
	return validateRecord(dto.Description, dto.Amount, dto.Date, "payee", dto.Payee)
}

// CreateExtraIncomeDTO represents the request payload for recording an extra income
type CreateExtraIncomeDTO struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Payer       string          `json:"payer"`
}

func (dto CreateExtraIncomeDTO) Validate() (time.Time, error) {
	return validateRecord(dto.Description, dto.Amount, dto.Date, "payer", dto.Payer)
}

func validateRecord(description string, amount decimal.Decimal, date, partyField, party string) (time.Time, error) {
	v := validation.NewValidator()
	v.Field("description", description).Required().MaxLength(500)
	v.Field("amount", amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("date", date).Required()
	v.Field(partyField, party).MaxLength(200)
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, appErr
	}

	parsed, appErr := validation.ParseDate("date", date)
	if appErr != nil {
		return time.Time{}, appErr
	}

	// Ensure the date is not in the future
	v = validation.NewValidator()
	v.Field("date", parsed).NotFuture()
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, appErr
	}
	return parsed, nil
}

// ListFilter narrows a listing to a date range with limit/offset pagination.
type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

func (f *ListFilter) normalize() {
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// RecordResponse is the wire shape shared by expenses and extra incomes.
type RecordResponse struct {
	ID           int64           `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Counterparty string          `json:"counterparty,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type ListResponse struct {
	Records []RecordResponse `json:"records"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
