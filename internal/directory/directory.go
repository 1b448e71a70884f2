package directory

import (
	"time"

	directoryDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
	"github.com/shopspring/decimal"
)

type EmployeeKind string

const (
	KindCourier     EmployeeKind = "courier"
	KindClientStaff EmployeeKind = "client_staff"
)

func (k EmployeeKind) Valid() bool {
	return k == KindCourier || k == KindClientStaff
}

type Employee struct {
	ID                int64           `json:"id"`
	FullName          string          `json:"fullName"`
	DocumentID        string          `json:"documentId"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	Kind              EmployeeKind    `json:"kind"`
	ClientID          *int64          `json:"clientId,omitempty"`
	DefaultHourlyRate decimal.Decimal `json:"defaultHourlyRate"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// BelongsTo reports whether the employee is staff of the given client.
func (e *Employee) BelongsTo(clientID int64) bool {
	return e.ClientID != nil && *e.ClientID == clientID
}

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"taxId"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func EmployeeToDataModel(e *Employee) *directoryDatamodel.Employee {
	return &directoryDatamodel.Employee{
		ID:                e.ID,
		FullName:          e.FullName,
		DocumentID:        e.DocumentID,
		Phone:             e.Phone,
		Address:           e.Address,
		Kind:              string(e.Kind),
		ClientID:          e.ClientID,
		DefaultHourlyRate: e.DefaultHourlyRate,
		IsActive:          e.IsActive,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func EmployeeFromDataModel(e *directoryDatamodel.Employee) *Employee {
	return &Employee{
		ID:                e.ID,
		FullName:          e.FullName,
		DocumentID:        e.DocumentID,
		Phone:             e.Phone,
		Address:           e.Address,
		Kind:              EmployeeKind(e.Kind),
		ClientID:          e.ClientID,
		DefaultHourlyRate: e.DefaultHourlyRate,
		IsActive:          e.IsActive,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ClientToDataModel(c *Client) *directoryDatamodel.Client {
	return &directoryDatamodel.Client{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Phone:     c.Phone,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ClientFromDataModel(c *directoryDatamodel.Client) *Client {
	return &Client{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Phone:     c.Phone,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
