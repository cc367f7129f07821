package postgres

import (
	"context"

	"github.com/dom/attendance-platform/internal/domain"
	"gorm.io/gorm"
)

type entityAdminRepository struct {
	db *gorm.DB
}

func NewEntityAdminRepository(db *gorm.DB) *entityAdminRepository {
	return &entityAdminRepository{db: db}
}

func (r *entityAdminRepository) Create(ctx context.Context, admin *domain.EntityAdmin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *entityAdminRepository) GetByID(ctx context.Context, id uint) (*domain.EntityAdmin, error) {
	return first[domain.EntityAdmin](r.db.WithContext(ctx), "id = ?", id)
}

func (r *entityAdminRepository) GetByIDWithOrganization(ctx context.Context, id uint) (*domain.EntityAdmin, error) {
	return first[domain.EntityAdmin](r.db.WithContext(ctx).Preload("Organization"), "id = ?", id)
}

func (r *entityAdminRepository) GetByUsername(ctx context.Context, username string) (*domain.EntityAdmin, error) {
	return first[domain.EntityAdmin](r.db.WithContext(ctx), "username = ?", username)
}

func (r *entityAdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&domain.EntityAdmin{}).Where("username = ?", username))
}

func (r *entityAdminRepository) ListByOrganizationID(ctx context.Context, orgID uint) ([]*domain.EntityAdmin, error) {
	var admins []*domain.EntityAdmin
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Find(&admins).Error
	if err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *entityAdminRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.EntityAdmin{}, "id = ?", id).Error
}
