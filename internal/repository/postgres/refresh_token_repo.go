package postgres

import (
	"context"
	"time"

	"github.com/dom/attendance-platform/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *refreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	return first[domain.RefreshToken](r.db.WithContext(ctx), "token = ?", token)
}

func (r *refreshTokenRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&domain.RefreshToken{}).Where("token = ?", token))
}

func (r *refreshTokenRepository) Consume(ctx context.Context, token string) (*domain.RefreshToken, error) {
	return consume[domain.RefreshToken](r.db.WithContext(ctx), token)
}

func (r *refreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "token = ?", token).Error
}

func (r *refreshTokenRepository) DeleteByAdminID(ctx context.Context, adminID uint) error {
	return r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "admin_id = ?", adminID).Error
}

func (r *refreshTokenRepository) DeleteByExpiryDateBefore(ctx context.Context, instant time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.RefreshToken{}, "expiry_date < ?", instant)
	return res.RowsAffected, res.Error
}

type superAdminRefreshTokenRepository struct {
	db *gorm.DB
}

func NewSuperAdminRefreshTokenRepository(db *gorm.DB) *superAdminRefreshTokenRepository {
	return &superAdminRefreshTokenRepository{db: db}
}

func (r *superAdminRefreshTokenRepository) Create(ctx context.Context, token *domain.SuperAdminRefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *superAdminRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.SuperAdminRefreshToken, error) {
	return first[domain.SuperAdminRefreshToken](r.db.WithContext(ctx), "token = ?", token)
}

func (r *superAdminRefreshTokenRepository) ExistsByToken(ctx context.Context, token string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&domain.SuperAdminRefreshToken{}).Where("token = ?", token))
}

func (r *superAdminRefreshTokenRepository) Consume(ctx context.Context, token string) (*domain.SuperAdminRefreshToken, error) {
	return consume[domain.SuperAdminRefreshToken](r.db.WithContext(ctx), token)
}

func (r *superAdminRefreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&domain.SuperAdminRefreshToken{}, "token = ?", token).Error
}

func (r *superAdminRefreshTokenRepository) DeleteBySuperAdminID(ctx context.Context, superAdminID uint) error {
	return r.db.WithContext(ctx).Delete(&domain.SuperAdminRefreshToken{}, "super_admin_id = ?", superAdminID).Error
}

func (r *superAdminRefreshTokenRepository) DeleteByExpiryDateBefore(ctx context.Context, instant time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.SuperAdminRefreshToken{}, "expiry_date < ?", instant)
	return res.RowsAffected, res.Error
}

// consume removes a token row with DELETE ... RETURNING. Concurrent callers
// race on the row lock, so at most one of them gets the row back.
func consume[T any](tx *gorm.DB, token string) (*T, error) {
	var rows []T
	res := tx.Clauses(clause.Returning{}).Where("token = ?", token).Delete(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
