package loan

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	loanDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/loan"
	"github.com/frahmantamala/courier-payroll/internal/directory"
)

type RepositoryAPI interface {
	Transaction(ctx context.Context, fn func(repo RepositoryAPI) error) error
	Create(ctx context.Context, l *loanDatamodel.Loan) error
	GetByID(ctx context.Context, id int64) (*loanDatamodel.Loan, error)
	List(ctx context.Context, filter ListFilter) ([]*loanDatamodel.Loan, error)
	// FindActiveByEmployee returns the Approved loan or nil.
	FindActiveByEmployee(ctx context.Context, employeeID int64) (*loanDatamodel.Loan, error)
	// UpdateStatus and SaveRepayment fail with ErrLoanVersionChanged when the row
	// no longer carries expectedVersion.
	UpdateStatus(ctx context.Context, l *loanDatamodel.Loan, expectedVersion int64) error
	SaveRepayment(ctx context.Context, l *loanDatamodel.Loan, repayment *loanDatamodel.LoanRepayment, expectedVersion int64) error
}

type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id int64) (*directory.Employee, error)
}

type Service struct {
	repo      RepositoryAPI
	directory EmployeeDirectory
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, dir EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: dir,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) RequestLoan(ctx context.Context, dto RequestLoanDTO) (*Loan, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetEmployee(ctx, dto.EmployeeID); err != nil {
		return nil, err
	}

	l := NewLoan(dto.EmployeeID, dto.PrincipalAmount, dto.InstallmentCount, dto.Reason, s.now())
	row := ToDataModel(l)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create loan", "employee_id", dto.EmployeeID, "error", err)
		return nil, err
	}

	s.logger.Info("loan requested", "loan_id", row.ID, "employee_id", row.EmployeeID, "principal", row.PrincipalAmount.String())
	return FromDataModel(row), nil
}

// ApproveLoan moves a Pending loan to Approved. An employee may hold one Approved loan at a time.
func (s *Service) ApproveLoan(ctx context.Context, id int64, reviewer *int64) (*Loan, error) {
	var approved *Loan
	err := s.repo.Transaction(ctx, func(repo RepositoryAPI) error {
		l, err := s.getPending(ctx, repo, id)
		if err != nil {
			return err
		}

		active, err := repo.FindActiveByEmployee(ctx, l.EmployeeID)
		if err != nil {
			return err
		}
		if active != nil {
			return internal.ErrActiveLoanExists
		}

		version := l.Version
		today := truncateDay(s.now())
		l.Approve(today, reviewer)
		if err := repo.UpdateStatus(ctx, ToDataModel(l), version); err != nil {
			return err
		}
		l.Version = version + 1
		approved = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan approved", "loan_id", id, "employee_id", approved.EmployeeID)
	return approved, nil
}

func (s *Service) RejectLoan(ctx context.Context, id int64, reviewer *int64) (*Loan, error) {
	l, err := s.getPending(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	version := l.Version
	l.Reject(reviewer)
	if err := s.repo.UpdateStatus(ctx, ToDataModel(l), version); err != nil {
		return nil, err
	}
	l.Version = version + 1

	s.logger.Info("loan rejected", "loan_id", id)
	return l, nil
}

func (s *Service) GetLoan(ctx context.Context, id int64) (*Loan, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get loan", "loan_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrLoanNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list loans", "error", err)
		return nil, err
	}

	loans := make([]*Loan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, FromDataModel(row))
	}
	return loans, nil
}

// GetActiveLoan returns the employee's Approved loan, or nil when there is none.
func (s *Service) GetActiveLoan(ctx context.Context, employeeID int64) (*Loan, error) {
	row, err := s.repo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// RequireActiveLoan is GetActiveLoan with a missing loan reported as ErrLoanNotFound.
func (s *Service) RequireActiveLoan(ctx context.Context, employeeID int64) (*Loan, error) {
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	l, err := s.GetActiveLoan(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, internal.ErrLoanNotFound.WithMessage("employee has no active loan")
	}
	return l, nil
}

func (s *Service) getPending(ctx context.Context, repo RepositoryAPI, id int64) (*Loan, error) {
	row, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrLoanNotFound
	}
	l := FromDataModel(row)
	if l.Status != StatusPending {
		return nil, internal.ErrInvalidLoanStatus.WithMessage("only pending loans can be reviewed, loan is " + string(l.Status))
	}
	return l, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
