package postgres

import (
	"context"

	"github.com/dom/attendance-platform/internal/domain"
	"gorm.io/gorm"
)

type superAdminRepository struct {
	db *gorm.DB
}

func NewSuperAdminRepository(db *gorm.DB) *superAdminRepository {
	return &superAdminRepository{db: db}
}

func (r *superAdminRepository) Create(ctx context.Context, admin *domain.SuperAdmin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *superAdminRepository) GetByID(ctx context.Context, id uint) (*domain.SuperAdmin, error) {
	return first[domain.SuperAdmin](r.db.WithContext(ctx), "id = ?", id)
}

func (r *superAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.SuperAdmin, error) {
	return first[domain.SuperAdmin](r.db.WithContext(ctx), "username = ?", username)
}

func (r *superAdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&domain.SuperAdmin{}).Where("username = ?", username))
}

func (r *superAdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.SuperAdmin{}).Count(&count).Error
	return count, err
}
