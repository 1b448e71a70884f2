package directory

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/courier-payroll/internal"
	directoryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
)

type RepositoryAPI interface {
	CreateEmployee(ctx context.Context, e *directoryDatamodel.Employee) error
	GetEmployeeByID(ctx context.Context, id int64) (*directoryDatamodel.Employee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]*directoryDatamodel.Employee, error)
	CreateClient(ctx context.Context, c *directoryDatamodel.Client) error
	GetClientByID(ctx context.Context, id int64) (*directoryDatamodel.Client, error)
	ListClients(ctx context.Context) ([]*directoryDatamodel.Client, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateEmployee(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.ClientID != nil {
		if _, err := s.GetClient(ctx, *dto.ClientID); err != nil {
			return nil, err
		}
	}

	row := EmployeeToDataModel(&Employee{
		FullName:          dto.FullName,
		DocumentID:        dto.DocumentID,
		Phone:             dto.Phone,
		Address:           dto.Address,
		Kind:              dto.Kind,
		ClientID:          dto.ClientID,
		DefaultHourlyRate: dto.DefaultHourlyRate.Round(2),
		IsActive:          true,
	})
	if err := s.repo.CreateEmployee(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "document_id", dto.DocumentID, "error", err)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", row.ID, "kind", row.Kind)
	return EmployeeFromDataModel(row), nil
}

// GetEmployee returns ErrEmployeeNotFound when the id is unknown.
func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetEmployeeByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "employee_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return EmployeeFromDataModel(row), nil
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]*Employee, error) {
	rows, err := s.repo.ListEmployees(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, EmployeeFromDataModel(row))
	}
	return employees, nil
}

func (s *Service) CreateClient(ctx context.Context, dto CreateClientDTO) (*Client, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := ClientToDataModel(&Client{
		Name:     dto.Name,
		TaxID:    dto.TaxID,
		Phone:    dto.Phone,
		Address:  dto.Address,
		IsActive: true,
	})
	if err := s.repo.CreateClient(ctx, row); err != nil {
		s.logger.Error("failed to create client", "tax_id", dto.TaxID, "error", err)
		return nil, err
	}

	s.logger.Info("client created", "client_id", row.ID)
	return ClientFromDataModel(row), nil
}

// GetClient returns ErrClientNotFound when the id is unknown.
func (s *Service) GetClient(ctx context.Context, id int64) (*Client, error) {
	row, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get client", "client_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrClientNotFound
	}
	return ClientFromDataModel(row), nil
}

func (s *Service) ListClients(ctx context.Context) ([]*Client, error) {
	rows, err := s.repo.ListClients(ctx)
	if err != nil {
		s.logger.Error("failed to list clients", "error", err)
		return nil, err
	}

	clients := make([]*Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, ClientFromDataModel(row))
	}
	return clients, nil
}
