package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	directoryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
	timeentryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/courier-payroll/internal/timeentry"
	"gorm.io/gorm"
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) timeentry.RepositoryAPI {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *timeentryDatamodel.TimeEntry) error {
	err := r.db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateTimeEntry.WithCause(err)
	}
	return err
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id int64) (*timeentryDatamodel.TimeEntry, error) {
	var entry timeentryDatamodel.TimeEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *TimeEntryRepository) List(ctx context.Context, filter timeentry.ListFilter) ([]*timeentryDatamodel.TimeEntry, error) {
	var entries []*timeentryDatamodel.TimeEntry

	q := r.db.WithContext(ctx).Model(&timeentryDatamodel.TimeEntry{})
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.StaffOfClientID != nil {
		staff := r.db.Model(&directoryDatamodel.Employee{}).Select("id").Where("client_id = ?", *filter.StaffOfClientID)
		q = q.Where("employee_id IN (?)", staff)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.From != nil {
		q = q.Where("work_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("work_date <= ?", *filter.To)
	}

	err := q.Order("work_date ASC, start_time ASC, id ASC").Find(&entries).Error
	return entries, err
}

func (r *TimeEntryRepository) UpdateOpen(ctx context.Context, entry *timeentryDatamodel.TimeEntry) error {
	res := r.db.WithContext(ctx).
		Model(&timeentryDatamodel.TimeEntry{}).
		Where("id = ? AND status = ? AND is_locked = ?", entry.ID, string(timeentry.StatusOpen), false).
		Select("employee_id", "client_id", "work_date", "start_time", "end_time", "is_holiday",
			"hourly_rate", "unpaid_lunch_minutes", "lunch_deduction_amount", "gross_hours", "subtotal",
			"net_amount_before_loan", "loan_deduction_amount", "net_amount_final", "updated_at").
		Updates(entry)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateTimeEntry.WithCause(res.Error)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrTimeEntryLocked
	}
	return nil
}

func (r *TimeEntryRepository) DeleteOpen(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ? AND is_locked = ?", id, string(timeentry.StatusOpen), false).
		Delete(&timeentryDatamodel.TimeEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrTimeEntryLocked
	}
	return nil
}

func (r *TimeEntryRepository) ShiftExists(ctx context.Context, employeeID int64, workDate time.Time, clientID *int64, startTime string, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&timeentryDatamodel.TimeEntry{}).
		Where("employee_id = ? AND work_date = ? AND start_time = ?", employeeID, workDate, startTime)
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	} else {
		q = q.Where("client_id IS NULL")
	}
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
