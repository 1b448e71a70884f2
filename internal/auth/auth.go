package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Authorize(ctx context.Context, accessToken string) (*internal.Principal, error)
}

type RepositoryAPI interface {
	// Both lookups return nil, nil when the user does not exist.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	GenerateRefreshToken(userID int64, email string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// Account is a login identity with its granted permissions. ClientID is set for
// users who act on behalf of one client company.
type Account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	ClientID     *int64
	IsActive     bool
	Permissions  []string
}

func (a *Account) Principal() *internal.Principal {
	return &internal.Principal{
		UserID:      a.ID,
		Email:       a.Email,
		ClientID:    a.ClientID,
		Permissions: a.Permissions,
	}
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
