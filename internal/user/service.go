package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/auth"
	userDatamodel "github.com/frahmantamala/courier-payroll/internal/core/datamodel/user"
	"github.com/frahmantamala/courier-payroll/internal/directory"
)

type RepositoryAPI interface {
	// Create returns internal.ErrDuplicateRecord when the email is taken.
	Create(ctx context.Context, u *userDatamodel.User, permissions []string, grantedBy *int64) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	List(ctx context.Context) ([]*userDatamodel.User, error)
	GetPermissions(ctx context.Context, userID int64) ([]string, error)
	EnsurePermissions(ctx context.Context, catalogue map[string]string) error
}

type ClientDirectory interface {
	GetClient(ctx context.Context, id int64) (*directory.Client, error)
}

type Service struct {
	repo       RepositoryAPI
	clients    ClientDirectory
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, clients ClientDirectory, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		clients:    clients,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateUser stores a new account with its permission grants. A nil actor is the seeder.
func (s *Service) CreateUser(ctx context.Context, actor *internal.Principal, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.ClientID != nil {
		if _, err := s.clients.GetClient(ctx, *dto.ClientID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.EnsurePermissions(ctx, auth.AllPermissions); err != nil {
		return nil, err
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		ClientID:     dto.ClientID,
		IsActive:     true,
	}
	var grantedBy *int64
	if actor != nil {
		grantedBy = &actor.UserID
	}
	if err := s.repo.Create(ctx, row, dto.Permissions, grantedBy); err != nil {
		if errors.Is(err, internal.ErrDuplicateRecord) {
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "permissions", dto.Permissions)
	return FromDataModelWithPermissions(row, dto.Permissions), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	perms, err := s.repo.GetPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModelWithPermissions(row, perms), nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		perms, err := s.repo.GetPermissions(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		users = append(users, FromDataModelWithPermissions(row, perms))
	}
	return users, nil
}
