package expense

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/courier-payroll/internal"
	expenseDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/expense"
)

// RepositoryAPI defines the data access methods for expenses and extra incomes
type RepositoryAPI interface {
	CreateExpense(ctx context.Context, e *expenseDatamodel.Expense) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]*expenseDatamodel.Expense, error)
	CreateExtraIncome(ctx context.Context, i *expenseDatamodel.ExtraIncome) error
	ListExtraIncomes(ctx context.Context, filter ListFilter) ([]*expenseDatamodel.ExtraIncome, error)
}

// Service handles expense and extra income bookkeeping
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

// NewService creates a new expense service
func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func createdBy(actor *internal.Principal) *int64 {
	if actor == nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func (s *Service) CreateExpense(ctx context.Context, actor *internal.Principal, dto CreateExpenseDTO) (*Expense, error) {
	date, err := dto.Validate()
	if err != nil {
		s.logger.Info("expense validation failed", "error", err)
		return nil, err
	}

	row := ToDataModel(NewExpense(dto, date, createdBy(actor)))
	if err := s.repo.CreateExpense(ctx, row); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, err
	}

	s.logger.Info("expense created successfully",
		"expense_id", row.ID,
		"amount", row.Amount.String(),
		"date", date.Format(dateLayout))
	return FromDataModel(row), nil
}

func (s *Service) ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	filter.normalize()
	rows, err := s.repo.ListExpenses(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) CreateExtraIncome(ctx context.Context, actor *internal.Principal, dto CreateExtraIncomeDTO) (*ExtraIncome, error) {
	date, err := dto.Validate()
	if err != nil {
		s.logger.Info("extra income validation failed", "error", err)
		return nil, err
	}

	row := IncomeToDataModel(NewExtraIncome(dto, date, createdBy(actor)))
	if err := s.repo.CreateExtraIncome(ctx, row); err != nil {
		s.logger.Error("failed to create extra income", "error", err)
		return nil, err
	}

	s.logger.Info("extra income created successfully",
		"extra_income_id", row.ID,
		"amount", row.Amount.String(),
		"date", date.Format(dateLayout))
	return IncomeFromDataModel(row), nil
}

func (s *Service) ListExtraIncomes(ctx context.Context, filter ListFilter) ([]*ExtraIncome, error) {
	filter.normalize()
	rows, err := s.repo.ListExtraIncomes(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list extra incomes", "error", err)
		return nil, err
	}
	return IncomeFromDataModelSlice(rows), nil
}
