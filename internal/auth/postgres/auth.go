package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/courier-payroll/internal/auth"
	userDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/user"
	"gorm.io/gorm"
)

var _ auth.RepositoryAPI = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return r.account(ctx, "email = ?", email)
}

func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*auth.Account, error) {
	return r.account(ctx, "id = ?", id)
}

func (r *Repository) account(ctx context.Context, cond string, arg interface{}) (*auth.Account, error) {
	var user userDatamodel.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var permissions []string
	err := r.db.WithContext(ctx).
		Table("permissions p").
		Joins("JOIN user_permissions up ON p.id = up.permission_id").
		Where("up.user_id = ?", user.ID).
		Order("p.name").
		Pluck("p.name", &permissions).Error
	if err != nil {
		return nil, err
	}

	return &auth.Account{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		ClientID:     user.ClientID,
		IsActive:     user.IsActive,
		Permissions:  permissions,
	}, nil
}
