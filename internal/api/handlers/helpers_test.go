package handlers_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dom/attendance-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()
	req := testutil.CreateAuthenticatedRequest(t, method, url, body, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// assertPlainError checks an http.Error reply: status, text content type
// and message.
func assertPlainError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	assert.Equal(t, status, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"),
		"content type %q", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), message)
}
