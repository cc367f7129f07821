package service

import (
	"fmt"

	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Tokens       *TokenService
	Auth         *AuthService
	SuperAuth    *SuperAdminAuthService
	Organization *OrganizationService
	Face         *FaceService
	Purger       *TokenPurger
	Resolver     identity.OrganizationResolver
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log *zap.Logger) (*Services, error) {
	resolver, err := NewResolver(repos.EntityAdmin, cfg)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenService(cfg)
	return &Services{
		Tokens:       tokens,
		Auth:         NewAuthService(repos.EntityAdmin, repos.Organization, repos.RefreshToken, tokens, log),
		SuperAuth:    NewSuperAdminAuthService(repos.SuperAdmin, repos.SuperAdminRefreshToken, tokens, log),
		Organization: NewOrganizationService(repos.Organization, repos.EntityAdmin, repos.RefreshToken, resolver, log),
		Face:         NewFaceService(repos.FaceRecognitionLog, log),
		Purger:       NewTokenPurger(repos.RefreshToken, repos.SuperAdminRefreshToken, log),
		Resolver:     resolver,
	}, nil
}

// NewResolver builds the caller-organization resolver selected by config.
func NewResolver(admins repository.EntityAdminRepository, cfg *config.Config) (identity.OrganizationResolver, error) {
	switch cfg.IdentityResolver {
	case config.IdentityResolverChain:
		return identity.NewChainResolver(admins, cfg.ResolverCacheSize, cfg.ResolverCacheTTL), nil
	case config.IdentityResolverPlaceholder:
		return identity.PlaceholderResolver{EntityID: cfg.PlaceholderEntityID}, nil
	default:
		return nil, fmt.Errorf("unknown identity resolver %q", cfg.IdentityResolver)
	}
}
