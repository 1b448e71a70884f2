package directory

import (
	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateEmployeeDTO struct {
	FullName          string          `json:"fullName"`
	DocumentID        string          `json:"documentId"`
	Phone             string          `json:"phone"`
	Address           string          `json:"address"`
	Kind              EmployeeKind    `json:"kind"`
	ClientID          *int64          `json:"clientId"`
	DefaultHourlyRate decimal.Decimal `json:"defaultHourlyRate"`
}

func (d *CreateEmployeeDTO) Validate() error {
	if d.Kind == "" {
		d.Kind = KindCourier
	}

	v := validation.NewValidator()
	v.Field("fullName", d.FullName).Required().MaxLength(200)
	v.Field("documentId", d.DocumentID).Required().MaxLength(50)
	v.Field("defaultHourlyRate", d.DefaultHourlyRate).NonNegative(internal.ErrCodeInvalidRate)
	v.Field("kind", d.Kind).Custom(func(value interface{}) *internal.AppError {
		if !d.Kind.Valid() {
			return internal.NewValidationFieldError("kind", "kind must be courier or client_staff", internal.ErrCodeValidationFailed)
		}
		if d.Kind == KindClientStaff && d.ClientID == nil {
			return internal.NewValidationFieldError("clientId", "client staff must reference a client", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type CreateClientDTO struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (d *CreateClientDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("taxId", d.TaxID).Required().MaxLength(50)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type EmployeeFilter struct {
	ClientID   *int64
	Kind       EmployeeKind
	ActiveOnly bool
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}

type ClientsResponse struct {
	Clients []*Client `json:"clients"`
}
