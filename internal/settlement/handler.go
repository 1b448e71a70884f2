package settlement

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

const IdempotencyHeader = "Idempotency-Key"

type ServiceAPI interface {
	SettleFortnight(ctx context.Context, opts Options) (*Result, error)
	SettleEmployee(ctx context.Context, employeeID int64, opts Options) (*Result, error)
	SettleClient(ctx context.Context, clientID int64, opts Options) (*Result, error)
	GetSettlement(ctx context.Context, id int64) (*Settlement, error)
	ListSettlements(ctx context.Context, filter ListFilter) ([]*Settlement, error)
}

// PayeeDirectory resolves the names printed on receipts.
type PayeeDirectory interface {
	GetEmployee(ctx context.Context, id int64) (*directory.Employee, error)
	GetClient(ctx context.Context, id int64) (*directory.Client, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Directory PayeeDirectory
	Currency  string
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, dir PayeeDirectory, currency string) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Directory:   dir,
		Currency:    currency,
	}
}

// options reads the optional request body and the Idempotency-Key header.
func (h *Handler) options(r *http.Request) (Options, error) {
	var dto SettleRequestDTO
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			return Options{}, err
		}
	}

	opts, err := dto.ToOptions(r.Header.Get(IdempotencyHeader))
	if err != nil {
		return opts, err
	}
	if p, ok := internal.PrincipalFromContext(r.Context()); ok {
		id := p.UserID
		opts.CreatedBy = &id
	}
	return opts, nil
}

func (h *Handler) SettleFortnight(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		h.HandleServiceError(w, r, "SettleFortnight", err)
		return
	}

	result, err := h.Service.SettleFortnight(r.Context(), opts)
	if err != nil {
		h.HandleServiceError(w, r, "SettleFortnight", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) SettleEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "SettleEmployee", err)
		return
	}
	opts, err := h.options(r)
	if err != nil {
		h.HandleServiceError(w, r, "SettleEmployee", err)
		return
	}

	result, err := h.Service.SettleEmployee(r.Context(), id, opts)
	if err != nil {
		h.HandleServiceError(w, r, "SettleEmployee", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) SettleClient(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "SettleClient", err)
		return
	}
	opts, err := h.options(r)
	if err != nil {
		h.HandleServiceError(w, r, "SettleClient", err)
		return
	}

	result, err := h.Service.SettleClient(r.Context(), id, opts)
	if err != nil {
		h.HandleServiceError(w, r, "SettleClient", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	if kind := EntityKind(r.URL.Query().Get("entity_kind")); kind != "" {
		if kind != EntityEmployee && kind != EntityClient {
			h.HandleServiceError(w, r, "ListSettlements",
				internal.NewValidationFieldError("entity_kind", "entity_kind must be employee or client", internal.ErrCodeValidationFailed))
			return
		}
		filter.EntityKind = kind
	}
	entityID, err := h.QueryInt64(r, "entity_id")
	if err != nil {
		h.HandleServiceError(w, r, "ListSettlements", err)
		return
	}
	filter.EntityID = entityID

	settlements, err := h.Service.ListSettlements(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListSettlements", err)
		return
	}

	resp := SettlementsResponse{Settlements: make([]SettlementResponse, 0, len(settlements))}
	for _, s := range settlements {
		resp.Settlements = append(resp.Settlements, s.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetSettlement", err)
		return
	}

	s, err := h.Service.GetSettlement(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetSettlement", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s.ToResponse())
}

func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "DownloadReceipt", err)
		return
	}

	s, err := h.Service.GetSettlement(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "DownloadReceipt", err)
		return
	}
	payee, err := h.payee(r.Context(), s.Entity)
	if err != nil {
		h.HandleServiceError(w, r, "DownloadReceipt", err)
		return
	}

	var buf bytes.Buffer
	if err := WriteReceipt(&buf, s, payee, h.Currency); err != nil {
		h.HandleServiceError(w, r, "DownloadReceipt", internal.NewInternalError("failed to render receipt", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"settlement-%d.pdf\"", s.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write receipt", "settlement_id", s.ID, "error", err)
	}
}

func (h *Handler) payee(ctx context.Context, entity Entity) (ReceiptParty, error) {
	if entity.Kind == EntityClient {
		c, err := h.Directory.GetClient(ctx, entity.ID)
		if err != nil {
			return ReceiptParty{}, err
		}
		return ReceiptParty{Name: c.Name, Document: c.TaxID, Phone: c.Phone, Address: c.Address}, nil
	}
	e, err := h.Directory.GetEmployee(ctx, entity.ID)
	if err != nil {
		return ReceiptParty{}, err
	}
	return ReceiptParty{Name: e.FullName, Document: e.DocumentID, Phone: e.Phone, Address: e.Address}, nil
}
