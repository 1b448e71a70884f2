package loan

import (
	"context"
	"net/http"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

type ServiceAPI interface {
	RequestLoan(ctx context.Context, dto RequestLoanDTO) (*Loan, error)
	ApproveLoan(ctx context.Context, id int64, reviewer *int64) (*Loan, error)
	RejectLoan(ctx context.Context, id int64, reviewer *int64) (*Loan, error)
	GetLoan(ctx context.Context, id int64) (*Loan, error)
	ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error)
	RequireActiveLoan(ctx context.Context, employeeID int64) (*Loan, error)
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

func reviewerFrom(r *http.Request) *int64 {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		return nil
	}
	id := p.UserID
	return &id
}

func (h *Handler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var dto RequestLoanDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "RequestLoan", err)
		return
	}

	l, err := h.Service.RequestLoan(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, "RequestLoan", err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, l.ToResponse())
}

func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	var err error
	if filter.EmployeeID, err = h.QueryInt64(r, "employee_id"); err != nil {
		h.HandleServiceError(w, r, "ListLoans", err)
		return
	}
	if status := Status(r.URL.Query().Get("status")); status != "" {
		switch status {
		case StatusPending, StatusApproved, StatusRejected, StatusPaid:
			filter.Status = status
		default:
			h.HandleServiceError(w, r, "ListLoans",
				internal.NewValidationFieldError("status", "status must be Pending, Approved, Rejected or Paid", internal.ErrCodeValidationFailed))
			return
		}
	}

	loans, err := h.Service.ListLoans(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListLoans", err)
		return
	}

	resp := LoansResponse{Loans: make([]LoanResponse, 0, len(loans))}
	for _, l := range loans {
		resp.Loans = append(resp.Loans, l.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetLoan", err)
		return
	}

	l, err := h.Service.GetLoan(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetLoan", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l.ToResponse())
}

func (h *Handler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "ApproveLoan", err)
		return
	}

	l, err := h.Service.ApproveLoan(r.Context(), id, reviewerFrom(r))
	if err != nil {
		h.HandleServiceError(w, r, "ApproveLoan", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l.ToResponse())
}

func (h *Handler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "RejectLoan", err)
		return
	}

	l, err := h.Service.RejectLoan(r.Context(), id, reviewerFrom(r))
	if err != nil {
		h.HandleServiceError(w, r, "RejectLoan", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l.ToResponse())
}

// GetActiveLoan serves the employee's current Approved loan and its next installment.
func (h *Handler) GetActiveLoan(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetActiveLoan", err)
		return
	}

	l, err := h.Service.RequireActiveLoan(r.Context(), employeeID)
	if err != nil {
		h.HandleServiceError(w, r, "GetActiveLoan", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l.ToResponse())
}
