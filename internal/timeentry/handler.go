package timeentry

import (
	"context"
	"net/http"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

type ServiceAPI interface {
	Preview(ctx context.Context, actor *internal.Principal, dto PreviewDTO) (PayResult, error)
	Create(ctx context.Context, actor *internal.Principal, dto TimeEntryDTO) (*TimeEntry, error)
	Get(ctx context.Context, actor *internal.Principal, id int64) (*TimeEntry, error)
	List(ctx context.Context, actor *internal.Principal, filter ListFilter) ([]*TimeEntry, error)
	Update(ctx context.Context, actor *internal.Principal, id int64, dto TimeEntryDTO) (*TimeEntry, error)
	Delete(ctx context.Context, actor *internal.Principal, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func actorFrom(r *http.Request) *internal.Principal {
	p, _ := internal.PrincipalFromContext(r.Context())
	return p
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var dto PreviewDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "PreviewTimeEntry", err)
		return
	}

	result, err := h.Service.Preview(r.Context(), actorFrom(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, "PreviewTimeEntry", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var dto TimeEntryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "CreateTimeEntry", err)
		return
	}

	entry, err := h.Service.Create(r.Context(), actorFrom(r), dto)
	if err != nil {
		h.HandleServiceError(w, r, "CreateTimeEntry", err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, entry.ToResponse())
}

func (h *Handler) GetTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetTimeEntry", err)
		return
	}

	entry, err := h.Service.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetTimeEntry", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry.ToResponse())
}

func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, r, "ListTimeEntries", err)
		return
	}

	entries, err := h.Service.List(r.Context(), actorFrom(r), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListTimeEntries", err)
		return
	}

	resp := TimeEntriesResponse{TimeEntries: make([]TimeEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.TimeEntries = append(resp.TimeEntries, e.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "UpdateTimeEntry", err)
		return
	}

	var dto TimeEntryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "UpdateTimeEntry", err)
		return
	}

	entry, err := h.Service.Update(r.Context(), actorFrom(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, "UpdateTimeEntry", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entry.ToResponse())
}

func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "DeleteTimeEntry", err)
		return
	}

	if err := h.Service.Delete(r.Context(), actorFrom(r), id); err != nil {
		h.HandleServiceError(w, r, "DeleteTimeEntry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	var err error

	q := r.URL.Query()
	if filter.EmployeeID, err = h.QueryInt64(r, "employee_id"); err != nil {
		return filter, err
	}
	if filter.ClientID, err = h.QueryInt64(r, "client_id"); err != nil {
		return filter, err
	}

	if status := Status(q.Get("status")); status != "" {
		if status != StatusOpen && status != StatusClaimed && status != StatusPaid {
			return filter, internal.NewValidationFieldError("status", "status must be OPEN, CLAIMED or PAID", internal.ErrCodeValidationFailed)
		}
		filter.Status = status
	}

	from, appErr := validation.ParseOptionalDate("from", q.Get("from"))
	if appErr != nil {
		return filter, appErr
	}
	to, appErr := validation.ParseOptionalDate("to", q.Get("to"))
	if appErr != nil {
		return filter, appErr
	}
	if appErr := validation.ValidateDateRange(from, to); appErr != nil {
		return filter, appErr
	}
	filter.From, filter.To = from, to
	return filter, nil
}
