package timeentry

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	timeentryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	Create(ctx context.Context, entry *timeentryDatamodel.TimeEntry) error
	GetByID(ctx context.Context, id int64) (*timeentryDatamodel.TimeEntry, error)
	List(ctx context.Context, filter ListFilter) ([]*timeentryDatamodel.TimeEntry, error)
	// UpdateOpen and DeleteOpen only touch OPEN, unlocked rows and return ErrTimeEntryLocked otherwise.
	UpdateOpen(ctx context.Context, entry *timeentryDatamodel.TimeEntry) error
	DeleteOpen(ctx context.Context, id int64) error
	ShiftExists(ctx context.Context, employeeID int64, workDate time.Time, clientID *int64, startTime string, excludeID int64) (bool, error)
}

type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id int64) (*directory.Employee, error)
	GetClient(ctx context.Context, id int64) (*directory.Client, error)
}

type Service struct {
	repo      RepositoryAPI
	directory EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, dir EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: dir,
		logger:    logger,
	}
}

// Preview runs the pay calculator without persisting anything.
func (s *Service) Preview(ctx context.Context, actor *internal.Principal, dto PreviewDTO) (PayResult, error) {
	rate := decimal.Zero
	switch {
	case dto.HourlyRate != nil:
		rate = *dto.HourlyRate
	case dto.EmployeeID > 0:
		emp, err := s.directory.GetEmployee(ctx, dto.EmployeeID)
		if err != nil {
			return PayResult{}, err
		}
		if err := authorizeEmployee(actor, emp); err != nil {
			return PayResult{}, err
		}
		rate = emp.DefaultHourlyRate
	}

	return Calculate(PayInput{
		StartTime:            dto.StartTime,
		EndTime:              dto.EndTime,
		HourlyRate:           rate,
		UnpaidLunchMinutes:   dto.UnpaidLunchMinutes,
		LunchDeductionAmount: dto.LunchDeductionAmount,
		LoanDeductionAmount:  dto.LoanDeductionAmount,
		IsHoliday:            dto.IsHoliday,
	})
}

func (s *Service) Create(ctx context.Context, actor *internal.Principal, dto TimeEntryDTO) (*TimeEntry, error) {
	workDate, err := dto.Validate()
	if err != nil {
		return nil, err
	}

	emp, err := s.directory.GetEmployee(ctx, dto.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := authorizeEmployee(actor, emp); err != nil {
		return nil, err
	}

	clientID, err := s.resolveClient(ctx, actor, dto.ClientID, emp)
	if err != nil {
		return nil, err
	}

	entry := &TimeEntry{
		EmployeeID: emp.ID,
		ClientID:   clientID,
		WorkDate:   workDate,
		Status:     StatusOpen,
	}
	if actor != nil {
		entry.CreatedBy = &actor.UserID
	}
	if err := s.price(entry, dto, emp); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueShift(ctx, entry); err != nil {
		return nil, err
	}

	row := ToDataModel(entry)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create time entry", "employee_id", emp.ID, "error", err)
		return nil, err
	}

	s.logger.Info("time entry created",
		"time_entry_id", row.ID,
		"employee_id", row.EmployeeID,
		"net_amount_final", row.NetAmountFinal.String())
	return FromDataModel(row), nil
}

func (s *Service) Get(ctx context.Context, actor *internal.Principal, id int64) (*TimeEntry, error) {
	entry, _, err := s.load(ctx, actor, id)
	return entry, err
}

func (s *Service) List(ctx context.Context, actor *internal.Principal, filter ListFilter) ([]*TimeEntry, error) {
	if actor != nil && actor.IsClientUser() {
		filter.StaffOfClientID = actor.ClientID
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list time entries", "error", err)
		return nil, err
	}

	entries := make([]*TimeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, FromDataModel(row))
	}
	return entries, nil
}

// Update replaces the shift fields of an OPEN, unlocked entry and reprices it.
func (s *Service) Update(ctx context.Context, actor *internal.Principal, id int64, dto TimeEntryDTO) (*TimeEntry, error) {
	entry, emp, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !entry.IsEditable() {
		return nil, internal.ErrTimeEntryLocked
	}

	if dto.EmployeeID == 0 {
		dto.EmployeeID = entry.EmployeeID
	}
	workDate, err := dto.Validate()
	if err != nil {
		return nil, err
	}
	if dto.EmployeeID != entry.EmployeeID {
		if emp, err = s.directory.GetEmployee(ctx, dto.EmployeeID); err != nil {
			return nil, err
		}
		if err := authorizeEmployee(actor, emp); err != nil {
			return nil, err
		}
	}

	clientID, err := s.resolveClient(ctx, actor, dto.ClientID, emp)
	if err != nil {
		return nil, err
	}

	entry.EmployeeID = emp.ID
	entry.ClientID = clientID
	entry.WorkDate = workDate
	if err := s.price(entry, dto, emp); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueShift(ctx, entry); err != nil {
		return nil, err
	}

	row := ToDataModel(entry)
	if err := s.repo.UpdateOpen(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("time entry updated", "time_entry_id", id)
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, actor *internal.Principal, id int64) error {
	entry, _, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !entry.IsEditable() {
		return internal.ErrTimeEntryLocked
	}

	if err := s.repo.DeleteOpen(ctx, id); err != nil {
		return err
	}
	s.logger.Info("time entry deleted", "time_entry_id", id)
	return nil
}

func (s *Service) load(ctx context.Context, actor *internal.Principal, id int64) (*TimeEntry, *directory.Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get time entry", "time_entry_id", id, "error", err)
		return nil, nil, err
	}
	if row == nil {
		return nil, nil, internal.ErrTimeEntryNotFound
	}

	emp, err := s.directory.GetEmployee(ctx, row.EmployeeID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorizeEmployee(actor, emp); err != nil {
		return nil, nil, err
	}
	return FromDataModel(row), emp, nil
}

func (s *Service) price(entry *TimeEntry, dto TimeEntryDTO, emp *directory.Employee) error {
	rate := emp.DefaultHourlyRate
	if dto.HourlyRate != nil {
		rate = *dto.HourlyRate
	}

	in := dto.payInput(rate)
	pay, err := Calculate(in)
	if err != nil {
		return err
	}
	entry.applyPay(in, pay)
	return nil
}

func (s *Service) ensureUniqueShift(ctx context.Context, entry *TimeEntry) error {
	exists, err := s.repo.ShiftExists(ctx, entry.EmployeeID, entry.WorkDate, entry.ClientID, entry.StartTime, entry.ID)
	if err != nil {
		return err
	}
	if exists {
		return internal.ErrDuplicateTimeEntry
	}
	return nil
}

// resolveClient defaults the shift's company to the employer of client staff.
// A requested client must exist, and client users may only name their own.
func (s *Service) resolveClient(ctx context.Context, actor *internal.Principal, requested *int64, emp *directory.Employee) (*int64, error) {
	if requested == nil {
		if emp.Kind == directory.KindClientStaff {
			return emp.ClientID, nil
		}
		return nil, nil
	}

	if actor != nil && actor.IsClientUser() && *requested != *actor.ClientID {
		return nil, internal.ErrUnauthorizedAccess
	}
	client, err := s.directory.GetClient(ctx, *requested)
	if err != nil {
		return nil, err
	}
	id := client.ID
	return &id, nil
}

// authorizeEmployee limits client users to their own staff. A nil actor is the system.
func authorizeEmployee(actor *internal.Principal, emp *directory.Employee) error {
	if actor == nil || !actor.IsClientUser() {
		return nil
	}
	if !emp.BelongsTo(*actor.ClientID) {
		return internal.ErrUnauthorizedAccess
	}
	return nil
}
