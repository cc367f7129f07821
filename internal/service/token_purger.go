package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dom/attendance-platform/internal/metrics"
	"github.com/dom/attendance-platform/internal/repository"
	"go.uber.org/zap"
)

// TokenPurger removes expired refresh tokens from both token tables.
type TokenPurger struct {
	refreshRepo      repository.RefreshTokenRepository
	superRefreshRepo repository.SuperAdminRefreshTokenRepository
	now              func() time.Time
	log              *zap.Logger
}

func NewTokenPurger(
	refreshRepo repository.RefreshTokenRepository,
	superRefreshRepo repository.SuperAdminRefreshTokenRepository,
	log *zap.Logger,
) *TokenPurger {
	return &TokenPurger{
		refreshRepo:      refreshRepo,
		superRefreshRepo: superRefreshRepo,
		now:              time.Now,
		log:              log.Named("purger"),
	}
}

type PurgeResult struct {
	AdminTokens      int64
	SuperAdminTokens int64
}

func (r PurgeResult) Total() int64 {
	return r.AdminTokens + r.SuperAdminTokens
}

func (p *TokenPurger) PurgeExpired(ctx context.Context) (PurgeResult, error) {
	var result PurgeResult
	now := p.now()

	n, err := p.refreshRepo.DeleteByExpiryDateBefore(ctx, now)
	if err != nil {
		return result, fmt.Errorf("purge refresh tokens: %w", err)
	}
	result.AdminTokens = n
	metrics.TokensPurged.WithLabelValues("refresh_tokens").Add(float64(n))

	n, err = p.superRefreshRepo.DeleteByExpiryDateBefore(ctx, now)
	if err != nil {
		return result, fmt.Errorf("purge super admin refresh tokens: %w", err)
	}
	result.SuperAdminTokens = n
	metrics.TokensPurged.WithLabelValues("super_admin_refresh_tokens").Add(float64(n))

	p.log.Info("expired refresh tokens purged",
		zap.Int64("adminTokens", result.AdminTokens),
		zap.Int64("superAdminTokens", result.SuperAdminTokens),
	)
	return result, nil
}

// Run adapts PurgeExpired to the scheduler job signature.
func (p *TokenPurger) Run(ctx context.Context) error {
	_, err := p.PurgeExpired(ctx)
	return err
}
