package settlement

import (
	"strings"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const dateLayout = validation.DateLayout

// Options tune a single settlement run.
type Options struct {
	ApplyLoan           bool
	ApplySocialSecurity bool
	From                *time.Time
	To                  *time.Time
	IdempotencyKey      string
	CreatedBy           *int64
}

// SettleRequestDTO is the optional body of the settlement endpoints.
// applyLoan defaults to true.
type SettleRequestDTO struct {
	ApplyLoan           *bool  `json:"applyLoan"`
	ApplySocialSecurity bool   `json:"applySocialSecurity"`
	From                string `json:"from"`
	To                  string `json:"to"`
}

func (d SettleRequestDTO) ToOptions(idempotencyKey string) (Options, error) {
	opts := Options{
		ApplyLoan:           d.ApplyLoan == nil || *d.ApplyLoan,
		ApplySocialSecurity: d.ApplySocialSecurity,
		IdempotencyKey:      strings.TrimSpace(idempotencyKey),
	}

	v := validation.NewValidator()
	v.Field("Idempotency-Key", opts.IdempotencyKey).MaxLength(128)
	if appErr := v.Validate(); appErr != nil {
		return opts, appErr
	}

	from, appErr := validation.ParseOptionalDate("from", d.From)
	if appErr != nil {
		return opts, appErr
	}
	to, appErr := validation.ParseOptionalDate("to", d.To)
	if appErr != nil {
		return opts, appErr
	}
	if appErr := validation.ValidateDateRange(from, to); appErr != nil {
		return opts, appErr
	}
	opts.From, opts.To = from, to
	return opts, nil
}

// rejectRange is used by scopes whose period is fixed.
func (o Options) rejectRange(scope Scope) error {
	if o.From != nil || o.To != nil {
		return internal.NewValidationError("the "+string(scope)+" scope does not accept a date range", internal.ErrCodeInvalidScope)
	}
	return nil
}

type ListFilter struct {
	EntityKind EntityKind
	EntityID   *int64
}

// EntryQuery selects OPEN time entries for a scope.
type EntryQuery struct {
	EmployeeID      *int64
	StaffOfClientID *int64
	From            *time.Time
	To              *time.Time
}

type SettlementResponse struct {
	ID                      int64           `json:"id"`
	Entity                  Entity          `json:"entity"`
	Scope                   Scope           `json:"scope"`
	PeriodStart             string          `json:"periodStart"`
	PeriodEnd               string          `json:"periodEnd"`
	GrossAmount             decimal.Decimal `json:"grossAmount"`
	LoanDeduction           decimal.Decimal `json:"loanDeduction"`
	SocialSecurityDeduction decimal.Decimal `json:"socialSecurityDeduction"`
	TotalAmount             decimal.Decimal `json:"totalAmount"`
	LoanID                  *int64          `json:"loanId,omitempty"`
	TimeEntryIDs            []int64         `json:"timeEntryIds"`
	PaymentDate             string          `json:"paymentDate"`
	CreatedAt               time.Time       `json:"createdAt"`
}

type ResultResponse struct {
	Message     string               `json:"message"`
	Settled     bool                 `json:"settled"`
	Settlements []SettlementResponse `json:"settlements"`
}

type SettlementsResponse struct {
	Settlements []SettlementResponse `json:"settlements"`
}
