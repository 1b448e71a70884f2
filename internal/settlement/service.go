package settlement

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	directoryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
	loanDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/loan"
	settlementDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/settlement"
	timeentryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/courier-payroll/internal/core/events"
	"github.com/frahmantamala/courier-payroll/internal/loan"
	"github.com/shopspring/decimal"
)

// Store is the transactional persistence the engine runs against. Every method
// called inside Transaction's callback shares the same database transaction.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// LockEmployee and LockClient return nil when the row does not exist.
	LockEmployee(ctx context.Context, id int64) (*directoryDatamodel.Employee, error)
	LockClient(ctx context.Context, id int64) (*directoryDatamodel.Client, error)

	FindOpenEntries(ctx context.Context, q EntryQuery) ([]*timeentryDatamodel.TimeEntry, error)
	// ClaimEntries moves OPEN entries to CLAIMED and fails with ErrEntriesClaimed
	// unless every id was still OPEN.
	ClaimEntries(ctx context.Context, ids []int64) error
	MarkEntriesPaid(ctx context.Context, ids []int64, settlementID int64, paymentDate time.Time) error

	CreateSettlement(ctx context.Context, s *settlementDatamodel.Settlement) error
	FindByIdempotencyKey(ctx context.Context, key string) (*settlementDatamodel.Settlement, error)
	GetByID(ctx context.Context, id int64) (*settlementDatamodel.Settlement, error)
	List(ctx context.Context, filter ListFilter) ([]*settlementDatamodel.Settlement, error)

	ActiveLoan(ctx context.Context, employeeID int64) (*loanDatamodel.Loan, error)
	SaveLoanRepayment(ctx context.Context, l *loanDatamodel.Loan, repayment *loanDatamodel.LoanRepayment, expectedVersion int64) error
}

type Service struct {
	store          Store
	publisher      events.Publisher
	logger         *slog.Logger
	socialSecurity decimal.Decimal
	now            func() time.Time
}

func NewService(store Store, publisher events.Publisher, cfg internal.PayrollConfig, logger *slog.Logger) *Service {
	// an explicit zero disables the deduction
	ss := cfg.SocialSecurityDeduction
	loc := time.UTC
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		}
	}
	return &Service{
		store:          store,
		publisher:      publisher,
		logger:         logger,
		socialSecurity: ss.Round(2),
		now:            func() time.Time { return localDay(time.Now(), loc) },
	}
}

// WithClock replaces the time source used for fortnight bounds and payment dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// paidOff records a loan closed by a settlement so the event can be sent after commit.
type paidOff struct {
	loanID       int64
	employeeID   int64
	settlementID int64
}

type batch struct {
	settlements []*Settlement
	paidOff     []paidOff
}

// SettleFortnight settles every OPEN entry dated inside the current fortnight,
// producing one settlement per employee. All employees settle in one transaction.
func (s *Service) SettleFortnight(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.rejectRange(ScopeFortnight); err != nil {
		return nil, err
	}
	today := truncateDay(s.now())
	start, end := FortnightOf(today)

	var out batch
	err := s.store.Transaction(ctx, func(tx Store) error {
		out = batch{}
		entries, err := tx.FindOpenEntries(ctx, EntryQuery{From: &start, To: &end})
		if err != nil {
			return err
		}

		for _, group := range groupByEmployee(entries) {
			emp, err := tx.LockEmployee(ctx, group[0].EmployeeID)
			if err != nil {
				return err
			}
			if emp == nil {
				return internal.ErrEmployeeNotFound
			}
			// The fortnight run ignores the caller's key; one key cannot name many settlements.
			perEmployee := opts
			perEmployee.IdempotencyKey = ""
			if err := s.settleEmployee(ctx, tx, &out, emp, group, ScopeFortnight, start, end, today, perEmployee); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("fortnight settlement failed", "period_start", start.Format(dateLayout), "error", err)
		return nil, err
	}

	if len(out.settlements) == 0 {
		s.logger.Info("fortnight settlement found no open entries", "period_start", start.Format(dateLayout))
		return noOp(), nil
	}

	s.publish(ctx, out)
	s.logger.Info("fortnight settled",
		"period_start", start.Format(dateLayout),
		"period_end", end.Format(dateLayout),
		"settlements", len(out.settlements))
	return &Result{Message: MessageSettled, Settled: true, Settlements: out.settlements}, nil
}

// SettleEmployee settles all OPEN entries of one employee, optionally limited to a date range.
func (s *Service) SettleEmployee(ctx context.Context, employeeID int64, opts Options) (*Result, error) {
	entity := Entity{Kind: EntityEmployee, ID: employeeID}
	if existing, err := s.replay(ctx, entity, opts.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}
	today := truncateDay(s.now())

	var out batch
	err := s.store.Transaction(ctx, func(tx Store) error {
		out = batch{}
		emp, err := tx.LockEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		if emp == nil {
			return internal.ErrEmployeeNotFound
		}

		entries, err := tx.FindOpenEntries(ctx, EntryQuery{EmployeeID: &employeeID, From: opts.From, To: opts.To})
		if err != nil || len(entries) == 0 {
			return err
		}

		start, end := entryBounds(entries)
		if opts.From != nil {
			start = *opts.From
		}
		if opts.To != nil {
			end = *opts.To
		}
		return s.settleEmployee(ctx, tx, &out, emp, entries, ScopeEmployee, start, end, today, opts)
	})
	return s.finish(ctx, entity, opts.IdempotencyKey, out, err)
}

// SettleClient settles every OPEN entry worked by the client's staff, regardless of date.
// Client settlements carry no loan or social security deduction.
func (s *Service) SettleClient(ctx context.Context, clientID int64, opts Options) (*Result, error) {
	if err := opts.rejectRange(ScopeClient); err != nil {
		return nil, err
	}
	entity := Entity{Kind: EntityClient, ID: clientID}
	if existing, err := s.replay(ctx, entity, opts.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}
	today := truncateDay(s.now())

	var out batch
	err := s.store.Transaction(ctx, func(tx Store) error {
		out = batch{}
		client, err := tx.LockClient(ctx, clientID)
		if err != nil {
			return err
		}
		if client == nil {
			return internal.ErrClientNotFound
		}

		entries, err := tx.FindOpenEntries(ctx, EntryQuery{StaffOfClientID: &clientID})
		if err != nil || len(entries) == 0 {
			return err
		}

		start, end := entryBounds(entries)
		gross := sumNet(entries)
		settled := &Settlement{
			Entity:                  entity,
			Scope:                   ScopeClient,
			PeriodStart:             start,
			PeriodEnd:               end,
			GrossAmount:             gross,
			LoanDeduction:           decimal.Zero,
			SocialSecurityDeduction: decimal.Zero,
			TotalAmount:             gross,
			PaymentDate:             today,
			CreatedBy:               opts.CreatedBy,
		}
		if opts.IdempotencyKey != "" {
			key := opts.IdempotencyKey
			settled.IdempotencyKey = &key
		}
		if err := s.persist(ctx, tx, settled, entries); err != nil {
			return err
		}
		out.settlements = append(out.settlements, settled)
		return nil
	})
	return s.finish(ctx, entity, opts.IdempotencyKey, out, err)
}

// settleEmployee runs the shared claim, settle and pay steps for one employee inside tx.
func (s *Service) settleEmployee(ctx context.Context, tx Store, out *batch, emp *directoryDatamodel.Employee,
	entries []*timeentryDatamodel.TimeEntry, scope Scope, start, end, today time.Time, opts Options) error {

	gross := sumNet(entries)

	var active *loan.Loan
	loanDeduction := decimal.Zero
	if opts.ApplyLoan {
		row, err := tx.ActiveLoan(ctx, emp.ID)
		if err != nil {
			return err
		}
		if row != nil {
			active = loan.FromDataModel(row)
			loanDeduction = loan.ComputeInstallment(active)
		}
	}

	ss := decimal.Zero
	if opts.ApplySocialSecurity {
		ss = s.socialSecurity
	}

	settled := &Settlement{
		Entity:                  Entity{Kind: EntityEmployee, ID: emp.ID},
		Scope:                   scope,
		PeriodStart:             start,
		PeriodEnd:               end,
		GrossAmount:             gross,
		LoanDeduction:           loanDeduction,
		SocialSecurityDeduction: ss,
		TotalAmount:             gross.Sub(loanDeduction).Sub(ss).Round(2),
		PaymentDate:             today,
		CreatedBy:               opts.CreatedBy,
	}
	if active != nil && loanDeduction.IsPositive() {
		settled.LoanID = &active.ID
	}
	if opts.IdempotencyKey != "" {
		key := opts.IdempotencyKey
		settled.IdempotencyKey = &key
	}

	if err := s.persist(ctx, tx, settled, entries); err != nil {
		return err
	}

	if settled.LoanID != nil {
		version := active.Version
		repayment, paid := active.ApplyRepayment(loanDeduction, &settled.ID, today)
		if err := tx.SaveLoanRepayment(ctx, loan.ToDataModel(active), loan.RepaymentToDataModel(active.ID, repayment), version); err != nil {
			return err
		}
		if paid {
			out.paidOff = append(out.paidOff, paidOff{loanID: active.ID, employeeID: emp.ID, settlementID: settled.ID})
		}
	}

	out.settlements = append(out.settlements, settled)
	return nil
}

// persist claims the entries, inserts the settlement with its entry links and marks the entries paid.
func (s *Service) persist(ctx context.Context, tx Store, settled *Settlement, entries []*timeentryDatamodel.TimeEntry) error {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	if err := tx.ClaimEntries(ctx, ids); err != nil {
		return err
	}

	settled.TimeEntryIDs = ids
	row := ToDataModel(settled)
	if err := tx.CreateSettlement(ctx, row); err != nil {
		return err
	}
	settled.ID = row.ID
	settled.CreatedAt = row.CreatedAt

	return tx.MarkEntriesPaid(ctx, ids, row.ID, settled.PaymentDate)
}

// replay returns the stored result for a repeated idempotency key.
func (s *Service) replay(ctx context.Context, entity Entity, key string) (*Result, error) {
	if key == "" {
		return nil, nil
	}
	row, err := s.store.FindByIdempotencyKey(ctx, key)
	if err != nil || row == nil {
		return nil, err
	}

	existing := FromDataModel(row)
	if existing.Entity != entity {
		return nil, internal.NewConflictError("idempotency key was already used for another settlement", internal.ErrCodeDuplicateRecord)
	}
	s.logger.Info("settlement replayed from idempotency key", "settlement_id", existing.ID)
	return &Result{Message: MessageAlreadySettled, Settled: true, Settlements: []*Settlement{existing}}, nil
}

func (s *Service) finish(ctx context.Context, entity Entity, key string, out batch, err error) (*Result, error) {
	if err != nil {
		// A concurrent request with the same key won the insert.
		if key != "" && errors.Is(err, internal.ErrDuplicateRecord) {
			if existing, replayErr := s.replay(ctx, entity, key); existing != nil {
				return existing, nil
			} else if replayErr != nil {
				return nil, replayErr
			}
		}
		s.logger.Error("settlement failed", "entity_kind", entity.Kind, "entity_id", entity.ID, "error", err)
		return nil, err
	}

	if len(out.settlements) == 0 {
		s.logger.Info("settlement found no open entries", "entity_kind", entity.Kind, "entity_id", entity.ID)
		return noOp(), nil
	}

	s.publish(ctx, out)
	settled := out.settlements[0]
	s.logger.Info("settlement created",
		"settlement_id", settled.ID,
		"entity_kind", entity.Kind,
		"entity_id", entity.ID,
		"entries", len(settled.TimeEntryIDs),
		"total_amount", settled.TotalAmount.String())
	return &Result{Message: MessageSettled, Settled: true, Settlements: out.settlements}, nil
}

func (s *Service) publish(ctx context.Context, out batch) {
	if s.publisher == nil {
		return
	}
	for _, settled := range out.settlements {
		event := events.NewSettlementCreatedEvent(settled.ID, string(settled.Entity.Kind), settled.Entity.ID,
			string(settled.Scope), settled.TotalAmount, len(settled.TimeEntryIDs))
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish settlement event", "settlement_id", settled.ID, "error", err)
		}
	}
	for _, p := range out.paidOff {
		if err := s.publisher.Publish(ctx, events.NewLoanPaidOffEvent(p.loanID, p.employeeID, p.settlementID)); err != nil {
			s.logger.Error("failed to publish loan paid off event", "loan_id", p.loanID, "error", err)
		}
	}
}

func (s *Service) GetSettlement(ctx context.Context, id int64) (*Settlement, error) {
	row, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get settlement", "settlement_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrSettlementNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) ListSettlements(ctx context.Context, filter ListFilter) ([]*Settlement, error) {
	rows, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list settlements", "error", err)
		return nil, err
	}

	out := make([]*Settlement, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func sumNet(entries []*timeentryDatamodel.TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.NetAmountFinal)
	}
	return total.Round(2)
}

func entryBounds(entries []*timeentryDatamodel.TimeEntry) (time.Time, time.Time) {
	start, end := entries[0].WorkDate, entries[0].WorkDate
	for _, e := range entries[1:] {
		if e.WorkDate.Before(start) {
			start = e.WorkDate
		}
		if e.WorkDate.After(end) {
			end = e.WorkDate
		}
	}
	return truncateDay(start), truncateDay(end)
}

// groupByEmployee keeps employees in ascending id order so runs lock rows consistently.
func groupByEmployee(entries []*timeentryDatamodel.TimeEntry) [][]*timeentryDatamodel.TimeEntry {
	byEmployee := make(map[int64][]*timeentryDatamodel.TimeEntry)
	var ids []int64
	for _, e := range entries {
		if _, ok := byEmployee[e.EmployeeID]; !ok {
			ids = append(ids, e.EmployeeID)
		}
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], e)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	groups := make([][]*timeentryDatamodel.TimeEntry, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, byEmployee[id])
	}
	return groups
}
