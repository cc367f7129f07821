package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpstreamProber(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != HealthPath {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	prober := NewUpstreamProber("api-gateway", map[string]string{
		"/api/auth":    healthy.URL,
		"/api/billing": failing.URL,
	}, time.Second, zap.NewNop())

	before := prober.Status(context.Background())
	assert.Empty(t, before["upstreams"])
	assert.Equal(t, 2, before["upstreamCount"])

	err := prober.Probe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/api/billing")
	assert.NotContains(t, err.Error(), "/api/auth")

	status := prober.Status(context.Background())
	assert.Equal(t, "api-gateway", status["serviceName"])
	assert.Equal(t, 1, status["healthyUpstreams"])

	upstreams := status["upstreams"].(map[string]UpstreamState)
	require.Len(t, upstreams, 2)
	assert.True(t, upstreams["/api/auth"].Up)
	assert.False(t, upstreams["/api/billing"].Up)
	assert.Contains(t, upstreams["/api/billing"].Error, "503")
}

func TestUpstreamProber_JoinsHealthPath(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
	}))
	defer upstream.Close()

	prober := NewUpstreamProber("gw", map[string]string{
		"/api/auth":  upstream.URL + "/",
		"/api/super": upstream.URL + "/org/",
	}, time.Second, zap.NewNop())
	require.NoError(t, prober.Probe(context.Background()))

	assert.ElementsMatch(t, []string{HealthPath, "/org" + HealthPath}, paths)
}

func TestUpstreamProber_AllUp(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	prober := NewUpstreamProber("gw", map[string]string{"/api/auth": upstream.URL}, time.Second, zap.NewNop())
	assert.NoError(t, prober.Probe(context.Background()))
}

func TestSelfStatus(t *testing.T) {
	s := NewSelfStatus("auth-service", "production")
	status := s.Status(context.Background())

	assert.Equal(t, "auth-service", status["serviceName"])
	assert.Equal(t, "production", status["environment"])
	assert.Equal(t, true, status["active"])
	assert.GreaterOrEqual(t, status["uptimeMs"].(int64), int64(0))
}
