package ledger

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const dateLayout = validation.DateLayout

// RangeDTO is the report window taken from the query string.
type RangeDTO struct {
	From string
	To   string
}

func (d RangeDTO) Validate() (time.Time, time.Time, error) {
	v := validation.NewValidator()
	v.Field("from", d.From).Required()
	v.Field("to", d.To).Required()
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}

	from, appErr := validation.ParseDate("from", d.From)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	to, appErr := validation.ParseDate("to", d.To)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	if appErr := validation.ValidateDateRange(&from, &to); appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	return from, to, nil
}

type TransactionResponse struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Source      Source          `json:"source"`
	Contact     Contact         `json:"contact"`
}

type ReportResponse struct {
	From         string                `json:"from"`
	To           string                `json:"to"`
	Transactions []TransactionResponse `json:"transactions"`
	TotalIncome  decimal.Decimal       `json:"totalIncome"`
	TotalExpense decimal.Decimal       `json:"totalExpense"`
	FinalBalance decimal.Decimal       `json:"finalBalance"`
}
