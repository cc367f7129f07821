package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/attendance-platform/internal/repository"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	// ErrInvalidPrincipal is the invalid-argument failure for any caller
	// that cannot be mapped to an organization.
	ErrInvalidPrincipal = errors.New("unable to determine entity ID from authentication")

	ErrNoPrincipal    = fmt.Errorf("%w: no authenticated principal", ErrInvalidPrincipal)
	ErrNoOrganization = fmt.Errorf("%w: principal has no organization", ErrInvalidPrincipal)
)

// OrganizationResolver resolves the entity ID of the organization the
// caller acts for.
type OrganizationResolver interface {
	ResolveCallerOrganization(ctx context.Context, p *Principal) (string, error)
}

// ChainResolver follows principal -> entity admin -> organization.
type ChainResolver struct {
	admins repository.EntityAdminRepository
	cache  *expirable.LRU[uint, string]
}

// NewChainResolver caches resolved entity IDs per admin for ttl. A
// non-positive size disables caching.
func NewChainResolver(admins repository.EntityAdminRepository, size int, ttl time.Duration) *ChainResolver {
	r := &ChainResolver{admins: admins}
	if size > 0 {
		r.cache = expirable.NewLRU[uint, string](size, nil, ttl)
	}
	return r
}

func (r *ChainResolver) ResolveCallerOrganization(ctx context.Context, p *Principal) (string, error) {
	if p == nil || p.Username == "" {
		return "", ErrNoPrincipal
	}
	if !p.IsEntityAdmin() {
		return "", fmt.Errorf("%w: %s is not an entity admin", ErrInvalidPrincipal, p.Username)
	}

	if r.cache != nil {
		if entityID, ok := r.cache.Get(p.UserID); ok {
			return entityID, nil
		}
	}

	admin, err := r.admins.GetByIDWithOrganization(ctx, p.UserID)
	if err != nil {
		return "", fmt.Errorf("load entity admin %d: %w", p.UserID, err)
	}
	if admin == nil {
		return "", fmt.Errorf("%w: admin %s not found", ErrInvalidPrincipal, p.Username)
	}
	if admin.Organization == nil || admin.Organization.EntityID == "" {
		return "", ErrNoOrganization
	}

	if r.cache != nil {
		r.cache.Add(p.UserID, admin.Organization.EntityID)
	}
	return admin.Organization.EntityID, nil
}

// Forget drops any cached entry for the admin.
func (r *ChainResolver) Forget(adminID uint) {
	if r.cache != nil {
		r.cache.Remove(adminID)
	}
}

// PlaceholderResolver ignores who the caller is and answers with a fixed
// entity ID for any named principal. It stands in for services that do
// not own the admin table until identity is propagated between services.
type PlaceholderResolver struct {
	EntityID string
}

func (r PlaceholderResolver) ResolveCallerOrganization(_ context.Context, p *Principal) (string, error) {
	if p == nil || p.Username == "" {
		return "", ErrNoPrincipal
	}
	return r.EntityID, nil
}
