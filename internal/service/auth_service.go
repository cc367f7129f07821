package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrAccountDisabled     = errors.New("account disabled")
)

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Principal    identity.Principal
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService authenticates entity admins.
type AuthService struct {
	adminRepo   repository.EntityAdminRepository
	orgRepo     repository.OrganizationRepository
	refreshRepo repository.RefreshTokenRepository
	tokens      *TokenService
	log         *zap.Logger
}

func NewAuthService(
	adminRepo repository.EntityAdminRepository,
	orgRepo repository.OrganizationRepository,
	refreshRepo repository.RefreshTokenRepository,
	tokens *TokenService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		orgRepo:     orgRepo,
		refreshRepo: refreshRepo,
		tokens:      tokens,
		log:         log.Named("auth"),
	}
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
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

	if err := s.checkOrganizationActive(ctx, admin); err != nil {
		return nil, err
	}

	s.log.Info("entity admin logged in", zap.String("username", admin.Username))
	return s.issue(ctx, admin)
}

// Refresh exchanges a refresh token for a new token pair. The presented
// token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
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

	admin, err := s.adminRepo.GetByID(ctx, stored.AdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.checkOrganizationActive(ctx, admin); err != nil {
		return nil, err
	}

	return s.issue(ctx, admin)
}

// Logout revokes a single refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshRepo.DeleteByToken(ctx, refreshToken)
}

// LogoutAll revokes every refresh token held by the admin.
func (s *AuthService) LogoutAll(ctx context.Context, adminID uint) error {
	return s.refreshRepo.DeleteByAdminID(ctx, adminID)
}

func (s *AuthService) GetAdmin(ctx context.Context, id uint) (*domain.EntityAdmin, error) {
	admin, err := s.adminRepo.GetByIDWithOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrAdminNotFound
	}
	return admin, nil
}

func (s *AuthService) checkOrganizationActive(ctx context.Context, admin *domain.EntityAdmin) error {
	if admin.OrganizationID == nil {
		return nil
	}
	org, err := s.orgRepo.GetByID(ctx, *admin.OrganizationID, true)
	if err != nil {
		return err
	}
	if org == nil {
		return ErrAccountDisabled
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, admin *domain.EntityAdmin) (*AuthResult, error) {
	principal := identity.Principal{
		Kind:     identity.KindEntityAdmin,
		UserID:   admin.ID,
		Username: admin.Username,
	}

	accessToken, expiresAt, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiry := s.tokens.NewRefreshToken()
	err = s.refreshRepo.Create(ctx, &domain.RefreshToken{
		Token:      refreshToken,
		AdminID:    admin.ID,
		ExpiryDate: refreshExpiry,
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
