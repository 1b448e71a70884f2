package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/courier-payroll/internal"
	userDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/user"
	"github.com/frahmantamala/courier-payroll/internal/user"
	"gorm.io/gorm"
)

var _ user.RepositoryAPI = (*UserRepository)(nil)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User, permissions []string, grantedBy *int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		for _, name := range permissions {
			var perm userDatamodel.Permission
			if err := tx.Where("name = ?", name).First(&perm).Error; err != nil {
				return err
			}
			grant := &userDatamodel.UserPermission{UserID: u.ID, PermissionID: perm.ID, GrantedBy: grantedBy}
			if err := tx.Create(grant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateRecord
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetPermissions(ctx context.Context, userID int64) ([]string, error) {
	var permissions []string
	err := r.db.WithContext(ctx).
		Table("permissions p").
		Joins("JOIN user_permissions up ON p.id = up.permission_id").
		Where("up.user_id = ?", userID).
		Order("p.name").
		Pluck("p.name", &permissions).Error
	return permissions, err
}

// EnsurePermissions inserts any missing permission names.
func (r *UserRepository) EnsurePermissions(ctx context.Context, catalogue map[string]string) error {
	for name, description := range catalogue {
		perm := userDatamodel.Permission{Name: name, Description: description}
		if err := r.db.WithContext(ctx).Where(userDatamodel.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
			return err
		}
	}
	return nil
}
