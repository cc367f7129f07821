package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/dom/attendance-platform/internal/identity"
	"github.com/dom/attendance-platform/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrValidation = errors.New("validation failed")

const maxEntityIDAttempts = 1000

type OrganizationInput struct {
	Name          string
	Address       string
	Latitude      *float64
	Longitude     *float64
	ContactPerson string
	Email         string
}

func (in *OrganizationInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of range", ErrValidation)
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of range", ErrValidation)
	}
	return nil
}

type EntityAdminInput struct {
	Username string
	Password string
	Email    string
}

// adminCache is told when an admin's organization binding goes away.
type adminCache interface {
	Forget(adminID uint)
}

type noopAdminCache struct{}

func (noopAdminCache) Forget(uint) {}

type OrganizationService struct {
	orgRepo     repository.OrganizationRepository
	adminRepo   repository.EntityAdminRepository
	refreshRepo repository.RefreshTokenRepository
	resolver    identity.OrganizationResolver
	cache       adminCache
	log         *zap.Logger
	randIntN    func(n int) int
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	adminRepo repository.EntityAdminRepository,
	refreshRepo repository.RefreshTokenRepository,
	resolver identity.OrganizationResolver,
	log *zap.Logger,
) *OrganizationService {
	var cache adminCache = noopAdminCache{}
	if c, ok := resolver.(adminCache); ok {
		cache = c
	}
	return &OrganizationService{
		orgRepo:     orgRepo,
		adminRepo:   adminRepo,
		refreshRepo: refreshRepo,
		resolver:    resolver,
		cache:       cache,
		log:         log.Named("organization"),
		randIntN:    rand.Intn,
	}
}

func (s *OrganizationService) Create(ctx context.Context, input OrganizationInput) (*domain.Organization, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	exists, err := s.orgRepo.ExistsByName(ctx, input.Name, false)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrOrganizationNameExists
	}

	entityID, err := s.generateEntityID(ctx)
	if err != nil {
		return nil, err
	}

	org := &domain.Organization{
		EntityID:      entityID,
		Name:          input.Name,
		Address:       input.Address,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		IsActive:      true,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("entityId", org.EntityID),
		zap.String("name", org.Name),
	)
	return org, nil
}

// generateEntityID numbers organizations sequentially from the current
// count and falls back to random numbers once the sequence collides or
// runs past the five-digit range.
func (s *OrganizationService) generateEntityID(ctx context.Context) (string, error) {
	count, err := s.orgRepo.Count(ctx)
	if err != nil {
		return "", err
	}

	next := domain.FirstEntityNumber + int(count)
	for attempt := 0; attempt < maxEntityIDAttempts; attempt++ {
		if attempt > 0 || next > domain.MaxEntityNumber {
			next = domain.FirstEntityNumber - 1 + s.randIntN(domain.MaxEntityNumber-domain.FirstEntityNumber+2)
		}

		entityID := domain.FormatEntityID(next)
		taken, err := s.orgRepo.ExistsByEntityID(ctx, entityID, false)
		if err != nil {
			return "", err
		}
		if !taken {
			return entityID, nil
		}
	}

	return "", domain.ErrEntityIDExhausted
}

func (s *OrganizationService) Get(ctx context.Context, entityID string, activeOnly bool) (*domain.Organization, error) {
	org, err := s.orgRepo.GetByEntityID(ctx, entityID, activeOnly)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrOrganizationNotFound
	}
	return org, nil
}

func (s *OrganizationService) List(ctx context.Context, query domain.OrganizationQuery) (*domain.Page[*domain.Organization], error) {
	return s.orgRepo.List(ctx, query)
}

func (s *OrganizationService) Update(ctx context.Context, entityID string, input OrganizationInput) (*domain.Organization, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	org, err := s.Get(ctx, entityID, false)
	if err != nil {
		return nil, err
	}

	if input.Name != org.Name {
		other, err := s.orgRepo.GetByName(ctx, input.Name, false)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != org.ID {
			return nil, domain.ErrOrganizationNameExists
		}
	}

	org.Name = input.Name
	org.Address = input.Address
	org.Latitude = input.Latitude
	org.Longitude = input.Longitude
	org.ContactPerson = input.ContactPerson
	org.Email = input.Email

	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// SetActive soft-deletes (active=false) or restores an organization.
func (s *OrganizationService) SetActive(ctx context.Context, entityID string, active bool) (*domain.Organization, error) {
	org, err := s.Get(ctx, entityID, false)
	if err != nil {
		return nil, err
	}
	if org.IsActive == active {
		return org, nil
	}

	org.IsActive = active
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}

	s.log.Info("organization status changed",
		zap.String("entityId", org.EntityID),
		zap.Bool("active", active),
	)
	return org, nil
}

// Delete removes the organization together with its admins. Each admin's
// refresh tokens are revoked before the admin row goes.
func (s *OrganizationService) Delete(ctx context.Context, entityID string) error {
	org, err := s.orgRepo.GetByEntityID(ctx, entityID, false)
	if err != nil {
		return err
	}
	if org == nil {
		return nil
	}

	admins, err := s.adminRepo.ListByOrganizationID(ctx, org.ID)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := s.deleteAdmin(ctx, admin.ID); err != nil {
			return err
		}
	}

	if err := s.orgRepo.DeleteByEntityID(ctx, entityID); err != nil {
		return err
	}

	s.log.Info("organization deleted",
		zap.String("entityId", entityID),
		zap.Int("admins", len(admins)),
	)
	return nil
}

func (s *OrganizationService) CreateEntityAdmin(ctx context.Context, entityID string, input EntityAdminInput) (*domain.EntityAdmin, error) {
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	org, err := s.Get(ctx, entityID, true)
	if err != nil {
		return nil, err
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

	admin := &domain.EntityAdmin{
		Username:       input.Username,
		PasswordHash:   string(hashed),
		Email:          input.Email,
		Role:           domain.RoleEntityAdmin,
		OrganizationID: &org.ID,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.log.Info("entity admin created",
		zap.String("entityId", org.EntityID),
		zap.String("username", admin.Username),
	)
	return admin, nil
}

func (s *OrganizationService) ListEntityAdmins(ctx context.Context, entityID string) ([]*domain.EntityAdmin, error) {
	org, err := s.Get(ctx, entityID, false)
	if err != nil {
		return nil, err
	}
	return s.adminRepo.ListByOrganizationID(ctx, org.ID)
}

// DeleteEntityAdmin removes an admin of the given organization.
func (s *OrganizationService) DeleteEntityAdmin(ctx context.Context, entityID string, adminID uint) error {
	org, err := s.Get(ctx, entityID, false)
	if err != nil {
		return err
	}

	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if admin == nil || admin.OrganizationID == nil || *admin.OrganizationID != org.ID {
		return domain.ErrAdminNotFound
	}

	return s.deleteAdmin(ctx, adminID)
}

func (s *OrganizationService) deleteAdmin(ctx context.Context, adminID uint) error {
	if err := s.refreshRepo.DeleteByAdminID(ctx, adminID); err != nil {
		return fmt.Errorf("revoke tokens of admin %d: %w", adminID, err)
	}
	if err := s.adminRepo.Delete(ctx, adminID); err != nil {
		return err
	}
	s.cache.Forget(adminID)
	return nil
}

// CallerOrganization returns the active organization the principal acts for.
func (s *OrganizationService) CallerOrganization(ctx context.Context, p *identity.Principal) (*domain.Organization, error) {
	entityID, err := s.resolver.ResolveCallerOrganization(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, entityID, true)
}
