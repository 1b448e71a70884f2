package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeSettlementCreated = "settlement.created"
	EventTypeLoanPaidOff       = "loan.paid_off"
)

type SettlementCreatedEvent struct {
	BaseEvent
	SettlementID int64           `json:"settlement_id"`
	EntityKind   string          `json:"entity_kind"`
	EntityID     int64           `json:"entity_id"`
	Scope        string          `json:"scope"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	EntryCount   int             `json:"entry_count"`
}

func NewSettlementCreatedEvent(settlementID int64, entityKind string, entityID int64, scope string, total decimal.Decimal, entryCount int) *SettlementCreatedEvent {
	return &SettlementCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSettlementCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"settlement_id": settlementID,
				"entity_kind":   entityKind,
				"entity_id":     entityID,
				"scope":         scope,
				"total_amount":  total.StringFixed(2),
				"entry_count":   entryCount,
			},
		},
		SettlementID: settlementID,
		EntityKind:   entityKind,
		EntityID:     entityID,
		Scope:        scope,
		TotalAmount:  total,
		EntryCount:   entryCount,
	}
}

type LoanPaidOffEvent struct {
	BaseEvent
	LoanID       int64 `json:"loan_id"`
	EmployeeID   int64 `json:"employee_id"`
	SettlementID int64 `json:"settlement_id"`
}

func NewLoanPaidOffEvent(loanID, employeeID, settlementID int64) *LoanPaidOffEvent {
	return &LoanPaidOffEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoanPaidOff,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"loan_id":       loanID,
				"employee_id":   employeeID,
				"settlement_id": settlementID,
			},
		},
		LoanID:       loanID,
		EmployeeID:   employeeID,
		SettlementID: settlementID,
	}
}
