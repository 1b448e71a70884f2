package settlement

import (
	"time"

	settlementDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/settlement"
	"github.com/shopspring/decimal"
)

type EntityKind string

const (
	EntityEmployee EntityKind = "employee"
	EntityClient   EntityKind = "client"
)

// Entity identifies who a settlement pays: an employee or a client company.
type Entity struct {
	Kind EntityKind `json:"kind"`
	ID   int64      `json:"id"`
}

type Scope string

const (
	ScopeFortnight Scope = "fortnight"
	ScopeEmployee  Scope = "employee"
	ScopeClient    Scope = "client"
)

const (
	MessageSettled        = "settlement completed"
	MessageNoEntries      = "no entries pending"
	MessageAlreadySettled = "settlement already processed"
)

type Settlement struct {
	ID                      int64
	Entity                  Entity
	Scope                   Scope
	PeriodStart             time.Time
	PeriodEnd               time.Time
	GrossAmount             decimal.Decimal
	LoanDeduction           decimal.Decimal
	SocialSecurityDeduction decimal.Decimal
	TotalAmount             decimal.Decimal
	LoanID                  *int64
	TimeEntryIDs            []int64
	PaymentDate             time.Time
	IdempotencyKey          *string
	CreatedBy               *int64
	CreatedAt               time.Time
}

// Result is returned by every settlement run. An empty scope is not an error:
// Settled is false and Message explains why.
type Result struct {
	Message     string
	Settled     bool
	Settlements []*Settlement
}

func noOp() *Result {
	return &Result{Message: MessageNoEntries, Settled: false, Settlements: []*Settlement{}}
}

func (r *Result) ToResponse() ResultResponse {
	resp := ResultResponse{
		Message:     r.Message,
		Settled:     r.Settled,
		Settlements: make([]SettlementResponse, 0, len(r.Settlements)),
	}
	for _, s := range r.Settlements {
		resp.Settlements = append(resp.Settlements, s.ToResponse())
	}
	return resp
}

func (s *Settlement) ToResponse() SettlementResponse {
	ids := s.TimeEntryIDs
	if ids == nil {
		ids = []int64{}
	}
	return SettlementResponse{
		ID:                      s.ID,
		Entity:                  s.Entity,
		Scope:                   s.Scope,
		PeriodStart:             s.PeriodStart.Format(dateLayout),
		PeriodEnd:               s.PeriodEnd.Format(dateLayout),
		GrossAmount:             s.GrossAmount,
		LoanDeduction:           s.LoanDeduction,
		SocialSecurityDeduction: s.SocialSecurityDeduction,
		TotalAmount:             s.TotalAmount,
		LoanID:                  s.LoanID,
		TimeEntryIDs:            ids,
		PaymentDate:             s.PaymentDate.Format(dateLayout),
		CreatedAt:               s.CreatedAt,
	}
}

func ToDataModel(s *Settlement) *settlementDatamodel.Settlement {
	row := &settlementDatamodel.Settlement{
		ID:                      s.ID,
		EntityKind:              string(s.Entity.Kind),
		EntityID:                s.Entity.ID,
		Scope:                   string(s.Scope),
		PeriodStart:             s.PeriodStart,
		PeriodEnd:               s.PeriodEnd,
		GrossAmount:             s.GrossAmount,
		LoanDeduction:           s.LoanDeduction,
		SocialSecurityDeduction: s.SocialSecurityDeduction,
		TotalAmount:             s.TotalAmount,
		LoanID:                  s.LoanID,
		PaymentDate:             s.PaymentDate,
		IdempotencyKey:          s.IdempotencyKey,
		CreatedBy:               s.CreatedBy,
		CreatedAt:               s.CreatedAt,
	}
	for _, id := range s.TimeEntryIDs {
		row.Entries = append(row.Entries, settlementDatamodel.SettlementEntry{SettlementID: s.ID, TimeEntryID: id})
	}
	return row
}

func FromDataModel(row *settlementDatamodel.Settlement) *Settlement {
	s := &Settlement{
		ID:                      row.ID,
		Entity:                  Entity{Kind: EntityKind(row.EntityKind), ID: row.EntityID},
		Scope:                   Scope(row.Scope),
		PeriodStart:             row.PeriodStart.UTC(),
		PeriodEnd:               row.PeriodEnd.UTC(),
		GrossAmount:             row.GrossAmount,
		LoanDeduction:           row.LoanDeduction,
		SocialSecurityDeduction: row.SocialSecurityDeduction,
		TotalAmount:             row.TotalAmount,
		LoanID:                  row.LoanID,
		PaymentDate:             row.PaymentDate.UTC(),
		IdempotencyKey:          row.IdempotencyKey,
		CreatedBy:               row.CreatedBy,
		CreatedAt:               row.CreatedAt,
		TimeEntryIDs:            make([]int64, 0, len(row.Entries)),
	}
	for _, e := range row.Entries {
		s.TimeEntryIDs = append(s.TimeEntryIDs, e.TimeEntryID)
	}
	return s
}
