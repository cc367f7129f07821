package postgres

import (
	"context"

	"github.com/dom/attendance-platform/internal/domain"
	"gorm.io/gorm"
)

type faceRecognitionLogRepository struct {
	db *gorm.DB
}

func NewFaceRecognitionLogRepository(db *gorm.DB) *faceRecognitionLogRepository {
	return &faceRecognitionLogRepository{db: db}
}

func (r *faceRecognitionLogRepository) Create(ctx context.Context, log *domain.FaceRecognitionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *faceRecognitionLogRepository) ListByOrganizationID(ctx context.Context, orgID uint, limit, offset int) ([]*domain.FaceRecognitionLog, error) {
	var logs []*domain.FaceRecognitionLog
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
