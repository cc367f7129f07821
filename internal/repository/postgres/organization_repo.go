package postgres

import (
	"context"

	"github.com/dom/attendance-platform/internal/domain"
	"gorm.io/gorm"
)

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *organizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) scope(ctx context.Context, activeOnly bool) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Organization{})
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	return tx
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

func (r *organizationRepository) GetByID(ctx context.Context, id uint, activeOnly bool) (*domain.Organization, error) {
	return first[domain.Organization](r.scope(ctx, activeOnly), "id = ?", id)
}

func (r *organizationRepository) GetByEntityID(ctx context.Context, entityID string, activeOnly bool) (*domain.Organization, error) {
	return first[domain.Organization](r.scope(ctx, activeOnly), "entity_id = ?", entityID)
}

func (r *organizationRepository) GetByName(ctx context.Context, name string, activeOnly bool) (*domain.Organization, error) {
	return first[domain.Organization](r.scope(ctx, activeOnly), "name = ?", name)
}

func (r *organizationRepository) ListActive(ctx context.Context) ([]*domain.Organization, error) {
	var orgs []*domain.Organization
	err := r.scope(ctx, true).Order("id ASC").Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *organizationRepository) List(ctx context.Context, query domain.OrganizationQuery) (*domain.Page[*domain.Organization], error) {
	query = query.Normalize()

	filtered := func() *gorm.DB {
		tx := r.scope(ctx, query.ActiveOnly)
		if query.NameContains != "" {
			tx = tx.Where("LOWER(name) LIKE ?", containsPattern(query.NameContains))
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, err
	}

	var orgs []*domain.Organization
	err := filtered().
		Order("id ASC").
		Limit(query.Size).
		Offset(query.Page * query.Size).
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}

	return domain.NewPage(orgs, query.Page, query.Size, total), nil
}

func (r *organizationRepository) ExistsByName(ctx context.Context, name string, activeOnly bool) (bool, error) {
	return exists(r.scope(ctx, activeOnly).Where("name = ?", name))
}

func (r *organizationRepository) ExistsByEntityID(ctx context.Context, entityID string, activeOnly bool) (bool, error) {
	return exists(r.scope(ctx, activeOnly).Where("entity_id = ?", entityID))
}

func (r *organizationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.scope(ctx, false).Count(&count).Error
	return count, err
}

func (r *organizationRepository) DeleteByEntityID(ctx context.Context, entityID string) error {
	return r.db.WithContext(ctx).Where("entity_id = ?", entityID).Delete(&domain.Organization{}).Error
}
