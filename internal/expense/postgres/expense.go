package postgres

import (
	"context"

	expenseDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/expense"
	"github.com/frahmantamala/courier-payroll/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.RepositoryAPI interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) CreateExpense(ctx context.Context, e *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListExpenses returns expenses newest first within the filter's date range
func (r *ExpenseRepository) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.scoped(ctx, "expense_date", filter).
		Order("expense_date DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) CreateExtraIncome(ctx context.Context, i *expenseDatamodel.ExtraIncome) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *ExpenseRepository) ListExtraIncomes(ctx context.Context, filter expense.ListFilter) ([]*expenseDatamodel.ExtraIncome, error) {
	var incomes []*expenseDatamodel.ExtraIncome
	err := r.scoped(ctx, "income_date", filter).
		Order("income_date DESC, id DESC").
		Find(&incomes).Error
	return incomes, err
}

func (r *ExpenseRepository) scoped(ctx context.Context, dateColumn string, filter expense.ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if filter.From != nil {
		q = q.Where(dateColumn+" >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where(dateColumn+" <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	return q
}
