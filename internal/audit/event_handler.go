package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	auditDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/audit"
	"github.com/frahmantamala/courier-payroll/internal/core/events"
)

type RepositoryAPI interface {
	// Record ignores an event id that was already stored.
	Record(ctx context.Context, row *auditDatamodel.AuditLog) error
	List(ctx context.Context, filter ListFilter) ([]*auditDatamodel.AuditLog, error)
}

type EventHandler struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewEventHandler(repo RepositoryAPI, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *EventHandler) HandleSettlementCreated(ctx context.Context, event events.Event) error {
	settled, ok := event.(*events.SettlementCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for settlement created handler", "event_type", event.EventType())
		return fmt.Errorf("expected SettlementCreatedEvent, got %T", event)
	}
	return h.record(ctx, event, settled.EntityKind, settled.EntityID)
}

func (h *EventHandler) HandleLoanPaidOff(ctx context.Context, event events.Event) error {
	paidOff, ok := event.(*events.LoanPaidOffEvent)
	if !ok {
		h.logger.Error("invalid event type for loan paid off handler", "event_type", event.EventType())
		return fmt.Errorf("expected LoanPaidOffEvent, got %T", event)
	}
	return h.record(ctx, event, "loan", paidOff.LoanID)
}

func (h *EventHandler) record(ctx context.Context, event events.Event, kind string, id int64) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.EventType(), err)
	}

	log := &Log{
		EventID:    event.EventID(),
		EventType:  event.EventType(),
		EntityKind: kind,
		EntityID:   id,
		Payload:    string(payload),
		OccurredAt: event.OccurredAt(),
	}
	if err := h.repo.Record(ctx, ToDataModel(log)); err != nil {
		h.logger.Error("failed to write audit log",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
		return fmt.Errorf("audit log for event %s: %w", event.EventID(), err)
	}

	h.logger.Info("audit log written",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"entity_kind", kind,
		"entity_id", id)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeSettlementCreated, h.HandleSettlementCreated)
	eventBus.Subscribe(events.EventTypeLoanPaidOff, h.HandleLoanPaidOff)

	h.logger.Info("audit event handlers registered",
		"handlers", []string{events.EventTypeSettlementCreated, events.EventTypeLoanPaidOff})
}
