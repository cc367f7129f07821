package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type CreateSuperAdminInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// SuperAdminAuthService authenticates platform super admins. Their refresh
// tokens live in a table of their own.
type SuperAdminAuthService struct {
	adminRepo   repository.SuperAdminRepository
	refreshRepo repository.SuperAdminRefreshTokenRepository
	tokens      *TokenService
	log         *zap.Logger
}

func NewSuperAdminAuthService(
	adminRepo repository.SuperAdminRepository,
	refreshRepo repository.SuperAdminRefreshTokenRepository,
	tokens *TokenService,
	log *zap.Logger,
) *SuperAdminAuthService {
	return &SuperAdminAuthService{
		adminRepo:   adminRepo,
		refreshRepo: refreshRepo,
		tokens:      tokens,
		log:         log.Named("super-auth"),
	}
}

func (s *SuperAdminAuthService) Create(ctx context.Context, input CreateSuperAdminInput) (*domain.SuperAdmin, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	exists, err := s.adminRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.SuperAdmin{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.log.Info("super admin created", zap.String("username", admin.Username))
	return admin, nil
}

func (s *SuperAdminAuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	s.log.Info("super admin logged in", zap.String("username", admin.Username))
	return s.issue(ctx, admin)
}

func (s *SuperAdminAuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	stored, err := s.refreshRepo.Consume(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if stored == nil {
		return nil, ErrInvalidRefreshToken
	}

	if stored.IsExpired(s.tokens.Now()) {
		return nil, ErrRefreshTokenExpired
	}

	admin, err := s.adminRepo.GetByID(ctx, stored.SuperAdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidRefreshToken
	}
	if !admin.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issue(ctx, admin)
}

func (s *SuperAdminAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshRepo.DeleteByToken(ctx, refreshToken)
}

func (s *SuperAdminAuthService) LogoutAll(ctx context.Context, superAdminID uint) error {
	return s.refreshRepo.DeleteBySuperAdminID(ctx, superAdminID)
}

func (s *SuperAdminAuthService) issue(ctx context.Context, admin *domain.SuperAdmin) (*AuthResult, error) {
	principal := identity.Principal{
		Kind:     identity.KindSuperAdmin,
		UserID:   admin.ID,
		Username: admin.Username,
	}

	accessToken, expiresAt, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiry := s.tokens.NewRefreshToken()
	err = s.refreshRepo.Create(ctx, &domain.SuperAdminRefreshToken{
		Token:        refreshToken,
		SuperAdminID: admin.ID,
		ExpiryDate:   refreshExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		Principal:    principal,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
