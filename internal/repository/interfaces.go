package repository

import (
	"context"
	"time"

	"github.com/dom/attendance-platform/internal/domain"
)

// Lookups return (nil, nil) when no row matches. Deletes never fail
// because the row is already gone.

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	Update(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id uint, activeOnly bool) (*domain.Organization, error)
	GetByEntityID(ctx context.Context, entityID string, activeOnly bool) (*domain.Organization, error)
	GetByName(ctx context.Context, name string, activeOnly bool) (*domain.Organization, error)
	ListActive(ctx context.Context) ([]*domain.Organization, error)
	List(ctx context.Context, query domain.OrganizationQuery) (*domain.Page[*domain.Organization], error)
	ExistsByName(ctx context.Context, name string, activeOnly bool) (bool, error)
	ExistsByEntityID(ctx context.Context, entityID string, activeOnly bool) (bool, error)
	Count(ctx context.Context) (int64, error)
	DeleteByEntityID(ctx context.Context, entityID string) error
}

type EntityAdminRepository interface {
	Create(ctx context.Context, admin *domain.EntityAdmin) error
	GetByID(ctx context.Context, id uint) (*domain.EntityAdmin, error)
	GetByIDWithOrganization(ctx context.Context, id uint) (*domain.EntityAdmin, error)
	GetByUsername(ctx context.Context, username string) (*domain.EntityAdmin, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListByOrganizationID(ctx context.Context, orgID uint) ([]*domain.EntityAdmin, error)
	Delete(ctx context.Context, id uint) error
}

type SuperAdminRepository interface {
	Create(ctx context.Context, admin *domain.SuperAdmin) error
	GetByID(ctx context.Context, id uint) (*domain.SuperAdmin, error)
	GetByUsername(ctx context.Context, username string) (*domain.SuperAdmin, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	// Consume deletes the token and returns the removed row, or nil when
	// no row was deleted by this call.
	Consume(ctx context.Context, token string) (*domain.RefreshToken, error)
	ExistsByToken(ctx context.Context, token string) (bool, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByAdminID(ctx context.Context, adminID uint) error
	DeleteByExpiryDateBefore(ctx context.Context, instant time.Time) (int64, error)
}

type SuperAdminRefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.SuperAdminRefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.SuperAdminRefreshToken, error)
	Consume(ctx context.Context, token string) (*domain.SuperAdminRefreshToken, error)
	ExistsByToken(ctx context.Context, token string) (bool, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteBySuperAdminID(ctx context.Context, superAdminID uint) error
	DeleteByExpiryDateBefore(ctx context.Context, instant time.Time) (int64, error)
}

type FaceRecognitionLogRepository interface {
	Create(ctx context.Context, log *domain.FaceRecognitionLog) error
	ListByOrganizationID(ctx context.Context, orgID uint, limit, offset int) ([]*domain.FaceRecognitionLog, error)
}

type Repositories struct {
	Organization           OrganizationRepository
	EntityAdmin            EntityAdminRepository
	SuperAdmin             SuperAdminRepository
	RefreshToken           RefreshTokenRepository
	SuperAdminRefreshToken SuperAdminRefreshTokenRepository
	FaceRecognitionLog     FaceRecognitionLogRepository
}
