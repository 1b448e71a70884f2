package expense

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, actor *internal.Principal, dto CreateExpenseDTO) (*Expense, error)
	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	CreateExtraIncome(ctx context.Context, actor *internal.Principal, dto CreateExtraIncomeDTO) (*ExtraIncome, error)
	ListExtraIncomes(ctx context.Context, filter ListFilter) ([]*ExtraIncome, error)
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto CreateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "CreateExpense", err)
		return
	}

	actor, _ := internal.PrincipalFromContext(r.Context())
	e, err := h.Service.CreateExpense(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, "CreateExpense", err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e.ToResponse())
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, r, "ListExpenses", err)
		return
	}

	expenses, err := h.Service.ListExpenses(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListExpenses", err)
		return
	}

	resp := ListResponse{Records: make([]RecordResponse, 0, len(expenses)), Limit: filter.Limit, Offset: filter.Offset}
	for _, e := range expenses {
		resp.Records = append(resp.Records, e.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateExtraIncome(w http.ResponseWriter, r *http.Request) {
	var dto CreateExtraIncomeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "CreateExtraIncome", err)
		return
	}

	actor, _ := internal.PrincipalFromContext(r.Context())
	income, err := h.Service.CreateExtraIncome(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, "CreateExtraIncome", err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, income.ToResponse())
}

func (h *Handler) ListExtraIncomes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.HandleServiceError(w, r, "ListExtraIncomes", err)
		return
	}

	incomes, err := h.Service.ListExtraIncomes(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListExtraIncomes", err)
		return
	}

	resp := ListResponse{Records: make([]RecordResponse, 0, len(incomes)), Limit: filter.Limit, Offset: filter.Offset}
	for _, i := range incomes {
		resp.Records = append(resp.Records, i.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func parseFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: DefaultPageSize}

	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= MaxPageSize {
			filter.Limit = l
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
		}
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
