package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

// Expense is an ad hoc outgoing payment reported in the ledger.
type Expense struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Payee       string
	CreatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExtraIncome is money received outside client settlements.
type ExtraIncome struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Payer       string
	CreatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewExpense(dto CreateExpenseDTO, date time.Time, createdBy *int64) *Expense {
	return &Expense{
		Description: dto.Description,
		Amount:      dto.Amount.Round(2),
		Date:        date,
		Payee:       dto.Payee,
		CreatedBy:   createdBy,
	}
}

func NewExtraIncome(dto CreateExtraIncomeDTO, date time.Time, createdBy *int64) *ExtraIncome {
	return &ExtraIncome{
		Description: dto.Description,
		Amount:      dto.Amount.Round(2),
		Date:        date,
		Payer:       dto.Payer,
		CreatedBy:   createdBy,
	}
}

func (e *Expense) ToResponse() RecordResponse {
	return RecordResponse{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount,
		Date:         e.Date.Format(dateLayout),
		Counterparty: e.Payee,
		CreatedAt:    e.CreatedAt,
	}
}

func (i *ExtraIncome) ToResponse() RecordResponse {
	return RecordResponse{
		ID:           i.ID,
		Description:  i.Description,
		Amount:       i.Amount,
		Date:         i.Date.Format(dateLayout),
		Counterparty: i.Payer,
		CreatedAt:    i.CreatedAt,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.Date,
		Payee:       e.Payee,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.ExpenseDate.UTC(),
		Payee:       e.Payee,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}

func IncomeToDataModel(i *ExtraIncome) *expenseDatamodel.ExtraIncome {
	return &expenseDatamodel.ExtraIncome{
		ID:          i.ID,
		Description: i.Description,
		Amount:      i.Amount,
		IncomeDate:  i.Date,
		Payer:       i.Payer,
		CreatedBy:   i.CreatedBy,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func IncomeFromDataModel(i *expenseDatamodel.ExtraIncome) *ExtraIncome {
	return &ExtraIncome{
		ID:          i.ID,
		Description: i.Description,
		Amount:      i.Amount,
		Date:        i.IncomeDate.UTC(),
		Payer:       i.Payer,
		CreatedBy:   i.CreatedBy,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func IncomeFromDataModelSlice(incomes []*expenseDatamodel.ExtraIncome) []*ExtraIncome {
	result := make([]*ExtraIncome, len(incomes))
	for i, inc := range incomes {
		result[i] = IncomeFromDataModel(inc)
	}
	return result
}
