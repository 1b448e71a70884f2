package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	directoryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
	loanDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/loan"
	settlementDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/settlement"
	timeentryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/timeentry"
	loanPostgres "github.com/frahmantamala/courier-payroll/internal/loan/postgres"
	"github.com/frahmantamala/courier-payroll/internal/settlement"
	"github.com/frahmantamala/courier-payroll/internal/timeentry"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ settlement.Store = (*SettlementStore)(nil)

type SettlementStore struct {
	db    *gorm.DB
	loans *loanPostgres.LoanRepository
}

func NewSettlementStore(db *gorm.DB) *SettlementStore {
	return &SettlementStore{
		db:    db,
		loans: loanPostgres.NewLoanRepository(db),
	}
}

func (r *SettlementStore) Transaction(ctx context.Context, fn func(tx settlement.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SettlementStore{db: tx, loans: r.loans.WithTx(tx)})
	})
}

func (r *SettlementStore) LockEmployee(ctx context.Context, id int64) (*directoryDatamodel.Employee, error) {
	var emp directoryDatamodel.Employee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *SettlementStore) LockClient(ctx context.Context, id int64) (*directoryDatamodel.Client, error) {
	var client directoryDatamodel.Client
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *SettlementStore) FindOpenEntries(ctx context.Context, q settlement.EntryQuery) ([]*timeentryDatamodel.TimeEntry, error) {
	var entries []*timeentryDatamodel.TimeEntry

	tx := r.db.WithContext(ctx).Model(&timeentryDatamodel.TimeEntry{}).
		Where("status = ? AND is_locked = ?", string(timeentry.StatusOpen), false)
	if q.EmployeeID != nil {
		tx = tx.Where("employee_id = ?", *q.EmployeeID)
	}
	if q.StaffOfClientID != nil {
		staff := r.db.Model(&directoryDatamodel.Employee{}).Select("id").Where("client_id = ?", *q.StaffOfClientID)
		tx = tx.Where("employee_id IN (?)", staff)
	}
	if q.From != nil {
		tx = tx.Where("work_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("work_date <= ?", *q.To)
	}

	err := tx.Order("employee_id ASC, work_date ASC, start_time ASC, id ASC").Find(&entries).Error
	return entries, err
}

func (r *SettlementStore) ClaimEntries(ctx context.Context, ids []int64) error {
	res := r.db.WithContext(ctx).
		Model(&timeentryDatamodel.TimeEntry{}).
		Where("id IN ? AND status = ? AND is_locked = ?", ids, string(timeentry.StatusOpen), false).
		Updates(map[string]interface{}{
			"status":     string(timeentry.StatusClaimed),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return internal.ErrEntriesClaimed
	}
	return nil
}

func (r *SettlementStore) MarkEntriesPaid(ctx context.Context, ids []int64, settlementID int64, paymentDate time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&timeentryDatamodel.TimeEntry{}).
		Where("id IN ? AND status = ?", ids, string(timeentry.StatusClaimed)).
		Updates(map[string]interface{}{
			"status":        string(timeentry.StatusPaid),
			"is_locked":     true,
			"settlement_id": settlementID,
			"payment_date":  paymentDate,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return internal.ErrEntriesClaimed
	}
	return nil
}

func (r *SettlementStore) CreateSettlement(ctx context.Context, s *settlementDatamodel.Settlement) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateRecord.WithCause(err)
	}
	return err
}

func (r *SettlementStore) FindByIdempotencyKey(ctx context.Context, key string) (*settlementDatamodel.Settlement, error) {
	return r.first(ctx, "idempotency_key = ?", key)
}

func (r *SettlementStore) GetByID(ctx context.Context, id int64) (*settlementDatamodel.Settlement, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *SettlementStore) first(ctx context.Context, query string, arg interface{}) (*settlementDatamodel.Settlement, error) {
	var s settlementDatamodel.Settlement
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("time_entry_id ASC") }).
		Where(query, arg).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettlementStore) List(ctx context.Context, filter settlement.ListFilter) ([]*settlementDatamodel.Settlement, error) {
	var rows []*settlementDatamodel.Settlement

	q := r.db.WithContext(ctx).Model(&settlementDatamodel.Settlement{}).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("time_entry_id ASC") })
	if filter.EntityKind != "" {
		q = q.Where("entity_kind = ?", string(filter.EntityKind))
	}
	if filter.EntityID != nil {
		q = q.Where("entity_id = ?", *filter.EntityID)
	}

	err := q.Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *SettlementStore) ActiveLoan(ctx context.Context, employeeID int64) (*loanDatamodel.Loan, error) {
	return r.loans.FindActiveByEmployee(ctx, employeeID)
}

func (r *SettlementStore) SaveLoanRepayment(ctx context.Context, l *loanDatamodel.Loan, repayment *loanDatamodel.LoanRepayment, expectedVersion int64) error {
	return r.loans.SaveRepayment(ctx, l, repayment, expectedVersion)
}
