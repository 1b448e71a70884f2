package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/user"
)

// User is a login account. Users with a ClientID only see that client's staff.
type User struct {
	ID          int64
	Email       string
	Name        string
	ClientID    *int64
	IsActive    bool
	Permissions []string
	CreatedAt   time.Time
}

type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	ClientID    *int64    `json:"clientId,omitempty"`
	IsActive    bool      `json:"isActive"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) ToResponse() UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		ClientID:    u.ClientID,
		IsActive:    u.IsActive,
		Permissions: perms,
		CreatedAt:   u.CreatedAt,
	}
}

func FromDataModelWithPermissions(u *userDatamodel.User, permissions []string) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		ClientID:    u.ClientID,
		IsActive:    u.IsActive,
		Permissions: permissions,
		CreatedAt:   u.CreatedAt,
	}
}
