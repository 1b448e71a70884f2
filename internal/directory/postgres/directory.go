package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/courier-payroll/internal"
	directoryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	"gorm.io/gorm"
)

type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) directory.RepositoryAPI {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) CreateEmployee(ctx context.Context, e *directoryDatamodel.Employee) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *DirectoryRepository) GetEmployeeByID(ctx context.Context, id int64) (*directoryDatamodel.Employee, error) {
	var e directoryDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *DirectoryRepository) ListEmployees(ctx context.Context, filter directory.EmployeeFilter) ([]*directoryDatamodel.Employee, error) {
	var employees []*directoryDatamodel.Employee
	q := r.db.WithContext(ctx).Model(&directoryDatamodel.Employee{})
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", string(filter.Kind))
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("full_name ASC").Find(&employees).Error
	return employees, err
}

func (r *DirectoryRepository) CreateClient(ctx context.Context, c *directoryDatamodel.Client) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *DirectoryRepository) GetClientByID(ctx context.Context, id int64) (*directoryDatamodel.Client, error) {
	var c directoryDatamodel.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *DirectoryRepository) ListClients(ctx context.Context) ([]*directoryDatamodel.Client, error) {
	var clients []*directoryDatamodel.Client
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	return clients, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateRecord.WithCause(err)
	}
	return err
}
