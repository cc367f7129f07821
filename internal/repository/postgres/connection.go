package postgres

import (
	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&domain.Organization{},
		&domain.EntityAdmin{},
		&domain.SuperAdmin{},
		&domain.RefreshToken{},
		&domain.SuperAdminRefreshToken{},
		&domain.FaceRecognitionLog{},
	}
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Organization:           NewOrganizationRepository(db),
		EntityAdmin:            NewEntityAdminRepository(db),
		SuperAdmin:             NewSuperAdminRepository(db),
		RefreshToken:           NewRefreshTokenRepository(db),
		SuperAdminRefreshToken: NewSuperAdminRefreshTokenRepository(db),
		FaceRecognitionLog:     NewFaceRecognitionLogRepository(db),
	}
}
