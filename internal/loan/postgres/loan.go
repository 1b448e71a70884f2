package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/courier-payroll/internal"
	loanDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/loan"
	"github.com/frahmantamala/courier-payroll/internal/loan"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ loan.RepositoryAPI = (*LoanRepository)(nil)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *LoanRepository) WithTx(tx *gorm.DB) *LoanRepository {
	return &LoanRepository{db: tx}
}

func (r *LoanRepository) Transaction(ctx context.Context, fn func(repo loan.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDatamodel.Loan) error {
	return r.db.WithContext(ctx).Omit("Repayments").Create(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id int64) (*loanDatamodel.Loan, error) {
	var l loanDatamodel.Loan
	err := r.db.WithContext(ctx).
		Preload("Repayments", func(db *gorm.DB) *gorm.DB { return db.Order("repaid_on ASC, id ASC") }).
		Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) List(ctx context.Context, filter loan.ListFilter) ([]*loanDatamodel.Loan, error) {
	var loans []*loanDatamodel.Loan
	q := r.db.WithContext(ctx).Model(&loanDatamodel.Loan{})
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	err := q.Order("requested_at DESC, id DESC").Find(&loans).Error
	return loans, err
}

func (r *LoanRepository) FindActiveByEmployee(ctx context.Context, employeeID int64) (*loanDatamodel.Loan, error) {
	var l loanDatamodel.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND status = ?", employeeID, string(loan.StatusApproved)).
		Order("id ASC").
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, l *loanDatamodel.Loan, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&loanDatamodel.Loan{}).
		Where("id = ? AND version = ?", l.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":      l.Status,
			"approved_at": l.ApprovedAt,
			"reviewed_by": l.ReviewedBy,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return internal.ErrActiveLoanExists.WithCause(res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrLoanVersionChanged
	}
	return nil
}

func (r *LoanRepository) SaveRepayment(ctx context.Context, l *loanDatamodel.Loan, repayment *loanDatamodel.LoanRepayment, expectedVersion int64) error {
	res := r.db.WithContext(ctx).
		Model(&loanDatamodel.Loan{}).
		Where("id = ? AND version = ?", l.ID, expectedVersion).
		Updates(map[string]interface{}{
			"outstanding_balance": l.OutstandingBalance,
			"status":              l.Status,
			"version":             gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrLoanVersionChanged
	}

	repayment.LoanID = l.ID
	return r.db.WithContext(ctx).Create(repayment).Error
}
