package service

import (
	"context"
	"fmt"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultFaceLogLimit = 50
	maxFaceLogLimit     = 500
)

// FaceService stores detection results reported by capture devices.
type FaceService struct {
	logRepo repository.FaceRecognitionLogRepository
	log     *zap.Logger
}

func NewFaceService(logRepo repository.FaceRecognitionLogRepository, log *zap.Logger) *FaceService {
	return &FaceService{
		logRepo: logRepo,
		log:     log.Named("face"),
	}
}

func (s *FaceService) Record(ctx context.Context, org *domain.Organization, result domain.FaceDetectionResult, deviceInfo string) (*domain.FaceRecognitionLog, error) {
	if !result.Success && result.ErrorMessage == "" {
		return nil, fmt.Errorf("%w: failed results need an error message", ErrValidation)
	}
	for _, face := range result.Faces {
		if face.Width <= 0 || face.Height <= 0 {
			return nil, fmt.Errorf("%w: face rectangle must have a positive size", ErrValidation)
		}
	}

	entry := domain.NewFaceRecognitionLog(org.ID, result, deviceInfo)
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Debug("detection result recorded",
		zap.String("entityId", org.EntityID),
		zap.Bool("success", result.Success),
		zap.Int("faces", result.FaceCount()),
	)
	return entry, nil
}

func (s *FaceService) List(ctx context.Context, org *domain.Organization, limit, offset int) ([]*domain.FaceRecognitionLog, error) {
	if limit <= 0 {
		limit = defaultFaceLogLimit
	}
	if limit > maxFaceLogLimit {
		limit = maxFaceLogLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.logRepo.ListByOrganizationID(ctx, org.ID, limit, offset)
}
