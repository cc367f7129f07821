package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/attendance-platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// AssertStatusCode checks the status and, on mismatch, reports the body so
// plain-text API errors show up in the failure.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode == expected {
		return
	}
	body, _ := io.ReadAll(resp.Body)
	assert.Failf(t, "unexpected status code", "want %d, got %d: %s", expected, resp.StatusCode, body)
}

// AssertJSONResponse requires a JSON content type and decodes the body into v.
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), "body: %s", body)
}

// AssertEntityID checks the MSD + five digits organization ID format.
func AssertEntityID(t *testing.T, entityID string) {
	t.Helper()
	assert.True(t, domain.IsValidEntityID(entityID), "malformed entity ID %q", entityID)
}

// AssertRefreshTokenRevoked checks that no entity admin refresh token row
// with this value is left.
func AssertRefreshTokenRevoked(t *testing.T, db *gorm.DB, token string) {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.RefreshToken{}).Where("token = ?", token).Count(&n).Error)
	assert.Zero(t, n, "refresh token still stored")
}

// AssertSuperAdminRefreshTokenRevoked is AssertRefreshTokenRevoked for the
// super admin token table.
func AssertSuperAdminRefreshTokenRevoked(t *testing.T, db *gorm.DB, token string) {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.SuperAdminRefreshToken{}).Where("token = ?", token).Count(&n).Error)
	assert.Zero(t, n, "super admin refresh token still stored")
}
