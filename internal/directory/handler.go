package directory

import (
	"context"
	"net/http"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/transport"
)

type ServiceAPI interface {
	CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]*Employee, error)
	CreateClient(ctx context.Context, dto CreateClientDTO) (*Client, error)
	GetClient(ctx context.Context, id int64) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
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

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "CreateEmployee", err)
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, "CreateEmployee", err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetEmployee", err)
		return
	}

	employee, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetEmployee", err)
		return
	}
	if p, ok := internal.PrincipalFromContext(r.Context()); ok && p.IsClientUser() && !employee.BelongsTo(*p.ClientID) {
		h.HandleServiceError(w, r, "GetEmployee", internal.ErrUnauthorizedAccess)
		return
	}
	h.WriteJSON(w, http.StatusOK, employee)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	clientID, err := h.QueryInt64(r, "client_id")
	if err != nil {
		h.HandleServiceError(w, r, "ListEmployees", err)
		return
	}

	filter := EmployeeFilter{
		ClientID:   clientID,
		Kind:       EmployeeKind(r.URL.Query().Get("kind")),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	if p, ok := internal.PrincipalFromContext(r.Context()); ok && p.IsClientUser() {
		filter.ClientID = p.ClientID
	}

	employees, err := h.Service.ListEmployees(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, "ListEmployees", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var dto CreateClientDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, "CreateClient", err)
		return
	}

	client, err := h.Service.CreateClient(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, "CreateClient", err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, client)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, "GetClient", err)
		return
	}

	client, err := h.Service.GetClient(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, "GetClient", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, "ListClients", err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ClientsResponse{Clients: clients})
}
