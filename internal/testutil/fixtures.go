package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OrganizationBuilder creates test organizations with a builder pattern
type OrganizationBuilder struct {
	entityID string
	name     string
	address  string
	active   bool
}

// NewOrganizationBuilder creates a new OrganizationBuilder with default values
func NewOrganizationBuilder() *OrganizationBuilder {
	return &OrganizationBuilder{
		entityID: domain.FormatEntityID(int(uuid.New().ID()%90000) + 10000),
		name:     fmt.Sprintf("Test Org %s", uuid.New().String()[:8]),
		address:  "1 Test Street",
		active:   true,
	}
}

// WithEntityID sets the entity ID
func (b *OrganizationBuilder) WithEntityID(entityID string) *OrganizationBuilder {
	b.entityID = entityID
	return b
}

// WithName sets the name
func (b *OrganizationBuilder) WithName(name string) *OrganizationBuilder {
	b.name = name
	return b
}

// Inactive marks the organization as soft-deleted
func (b *OrganizationBuilder) Inactive() *OrganizationBuilder {
	b.active = false
	return b
}

// Build creates the organization in the database
func (b *OrganizationBuilder) Build(t *testing.T, db *gorm.DB) *domain.Organization {
	t.Helper()

	org := &domain.Organization{
		EntityID: b.entityID,
		Name:     b.name,
		Address:  b.address,
		IsActive: b.active,
	}

	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}

	return org
}

// EntityAdminBuilder creates test entity admins
type EntityAdminBuilder struct {
	username     string
	password     string
	organization *domain.Organization
}

// NewEntityAdminBuilder creates a new EntityAdminBuilder with default values
func NewEntityAdminBuilder() *EntityAdminBuilder {
	return &EntityAdminBuilder{
		username: fmt.Sprintf("admin_%s", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *EntityAdminBuilder) WithUsername(username string) *EntityAdminBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *EntityAdminBuilder) WithPassword(password string) *EntityAdminBuilder {
	b.password = password
	return b
}

// WithOrganization attaches the admin to an organization
func (b *EntityAdminBuilder) WithOrganization(org *domain.Organization) *EntityAdminBuilder {
	b.organization = org
	return b
}

// Build creates the admin in the database and returns it with the raw password
func (b *EntityAdminBuilder) Build(t *testing.T, db *gorm.DB) (*domain.EntityAdmin, string) {
	t.Helper()

	admin := &domain.EntityAdmin{
		Username:     b.username,
		PasswordHash: hashPassword(t, b.password),
		Role:         domain.RoleEntityAdmin,
	}
	if b.organization != nil {
		admin.OrganizationID = &b.organization.ID
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create entity admin: %v", err)
	}

	return admin, b.password
}

// SuperAdminBuilder creates test super admins
type SuperAdminBuilder struct {
	username string
	password string
}

// NewSuperAdminBuilder creates a new SuperAdminBuilder with default values
func NewSuperAdminBuilder() *SuperAdminBuilder {
	return &SuperAdminBuilder{
		username: fmt.Sprintf("super_%s", uuid.New().String()[:8]),
		password: "superpassword123",
	}
}

// WithUsername sets the username
func (b *SuperAdminBuilder) WithUsername(username string) *SuperAdminBuilder {
	b.username = username
	return b
}

// Build creates the super admin in the database and returns it with the raw password
func (b *SuperAdminBuilder) Build(t *testing.T, db *gorm.DB) (*domain.SuperAdmin, string) {
	t.Helper()

	admin := &domain.SuperAdmin{
		Username:     b.username,
		PasswordHash: hashPassword(t, b.password),
		IsActive:     true,
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create super admin: %v", err)
	}

	return admin, b.password
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	// MinCost keeps the suite fast; production uses DefaultCost.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hashed)
}

// CreateRefreshToken stores a refresh token for an entity admin
func CreateRefreshToken(t *testing.T, db *gorm.DB, admin *domain.EntityAdmin, expiry time.Time) *domain.RefreshToken {
	t.Helper()

	token := &domain.RefreshToken{
		Token:      uuid.New().String(),
		AdminID:    admin.ID,
		ExpiryDate: expiry,
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
	return token
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Username     string    `json:"username"`
}

// Login authenticates through the API and returns the token pair.
// path is relative to /api, e.g. "/auth/login".
func Login(t *testing.T, ts *TestServer, path, username, password string) AuthResponse {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := http.Post(ts.APIURL(path), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return authResp
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
