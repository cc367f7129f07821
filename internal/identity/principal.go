// Package identity maps an authenticated caller onto the organization it
// acts for.
package identity

import (
	"context"
)

type Kind string

const (
	KindEntityAdmin Kind = "entity_admin"
	KindSuperAdmin  Kind = "super_admin"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	Kind     Kind
	UserID   uint
	Username string
}

func (p *Principal) IsEntityAdmin() bool {
	return p != nil && p.Kind == KindEntityAdmin
}

func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Kind == KindSuperAdmin
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the request principal, or nil for anonymous calls.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(contextKey{}).(*Principal)
	return p
}
