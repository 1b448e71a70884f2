package user

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/auth"
	"github.com/frahmantamala/courier-payroll/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Password    string   `json:"password"`
	ClientID    *int64   `json:"clientId,omitempty"`
	Permissions []string `json:"permissions"`
}

func (d *CreateUserDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255).Custom(func(value interface{}) *internal.AppError {
		if s, _ := value.(string); s != "" && !strings.Contains(s, "@") {
			return internal.NewValidationFieldError("email", "email must be a valid address", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("permissions", d.Permissions).Custom(func(value interface{}) *internal.AppError {
		for _, p := range d.Permissions {
			if _, ok := auth.AllPermissions[p]; !ok {
				return internal.NewValidationFieldError("permissions", fmt.Sprintf("unknown permission %q", p), internal.ErrCodeValidationFailed)
			}
			if p == auth.PermissionAdmin && d.ClientID != nil {
				return internal.NewValidationFieldError("permissions", "client users cannot be administrators", internal.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
