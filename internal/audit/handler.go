package audit

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Handler struct {
	*transport.BaseHandler
	Repo RepositoryAPI
}

func NewHandler(baseHandler *transport.BaseHandler, repo RepositoryAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Repo:        repo,
	}
}

// ListAuditLogs serves GET /audit-logs?event_type=&entity_kind=&entity_id=&limit=
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ListFilter{
		EventType:  query.Get("event_type"),
		EntityKind: query.Get("entity_kind"),
		Limit:      defaultListLimit,
	}

	entityID, err := h.QueryInt64(r, "entity_id")
	if err != nil {
		h.HandleServiceError(w, r, "ListAuditLogs", err)
		return
	}
	filter.EntityID = entityID

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxListLimit {
			h.HandleServiceError(w, r, "ListAuditLogs",
				internal.NewValidationFieldError("limit", "limit must be between 1 and 500", internal.ErrCodeValidationFailed))
			return
		}
		filter.Limit = limit
	}

	rows, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListAuditLogs", err)
		return
	}

	logs := make([]LogResponse, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, FromDataModel(row).ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}
