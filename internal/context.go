package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// Principal is the authenticated caller attached to the request context by the auth middleware.
type Principal struct {
	UserID      int64    `json:"id"`
	Email       string   `json:"email"`
	ClientID    *int64   `json:"client_id,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (p *Principal) HasAnyPermission(permissions ...string) bool {
	for _, userPerm := range p.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

// IsClientUser reports whether the principal acts on behalf of a single client company.
func (p *Principal) IsClientUser() bool {
	return p.ClientID != nil && !p.HasAnyPermission("admin")
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
