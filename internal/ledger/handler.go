package ledger

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/courier-payroll/internal/transport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Build(ctx context.Context, from, to time.Time) (*Report, error)
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

func (h *Handler) report(r *http.Request) (*Report, error) {
	query := r.URL.Query()
	from, to, err := RangeDTO{From: query.Get("from"), To: query.Get("to")}.Validate()
	if err != nil {
		return nil, err
	}
	return h.Service.Build(r.Context(), from, to)
}

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	report, err := h.report(r)
	if err != nil {
		h.HandleServiceError(w, r, "GetLedger", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, report.ToResponse())
}

func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	report, err := h.report(r)
	if err != nil {
		h.HandleServiceError(w, r, "ExportLedger", err)
		return
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, report); err != nil {
		h.HandleServiceError(w, r, "ExportLedger", err)
		return
	}

	filename := fmt.Sprintf("ledger-%s-%s.xlsx", report.From.Format(dateLayout), report.To.Format(dateLayout))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write ledger export", "error", err)
	}
}
