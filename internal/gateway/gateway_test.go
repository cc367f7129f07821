package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/dom/attendance-platform/internal/config"
	"github.com/dom/attendance-platform/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testGatewayConfig(routes map[string]string) *config.GatewayConfig {
	return &config.GatewayConfig{
		ServiceName:        "api-gateway",
		Routes:             routes,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
		AllowedOrigins:     []string{"*"},
	}
}

func TestParseRoutes(t *testing.T) {
	routes, err := ParseRoutes(map[string]string{
		"/api/":             "http://core:8080",
		"api/super/":        "http://org:8080",
		"/api/auth":         "http://auth:8080",
		"/api/organization": "http://org:8080",
	})
	require.NoError(t, err)

	prefixes := make([]string, len(routes))
	for i, r := range routes {
		prefixes[i] = r.Prefix
	}
	assert.Equal(t, []string{"/api/organization", "/api/super", "/api/auth", "/api"}, prefixes)

	_, err = ParseRoutes(map[string]string{"/api/discovery": "http://x:1"})
	assert.Error(t, err)

	_, err = ParseRoutes(map[string]string{"/": "http://x:1"})
	assert.Error(t, err)
}

func TestGateway_ProxiesToUpstream(t *testing.T) {
	var gotPath, gotForwardedFor string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotForwardedFor = r.Header.Get("X-Forwarded-For")
		w.Header().Set("X-Upstream", "auth")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, "created")
	}))
	defer upstream.Close()

	h, err := NewHandler(testGatewayConfig(map[string]string{"/api/auth": upstream.URL}), discovery.StaticStatus{}, zap.NewNop())
	require.NoError(t, err)
	gw := httptest.NewServer(h)
	defer gw.Close()

	resp, err := http.Post(gw.URL+"/api/auth/login?x=1", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", string(body))
	assert.Equal(t, "auth", resp.Header.Get("X-Upstream"))
	assert.Equal(t, "/api/auth/login?x=1", gotPath)
	assert.NotEmpty(t, gotForwardedFor)

	resp, err = http.Get(gw.URL + "/api/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGateway_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	upstream.Close()

	h, err := NewHandler(testGatewayConfig(map[string]string{"/api/auth": upstream.URL}), discovery.StaticStatus{}, zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGateway_ServesDiscovery(t *testing.T) {
	status := discovery.StaticStatus{"serviceName": "api-gateway"}
	h, err := NewHandler(testGatewayConfig(map[string]string{"/api/auth": "http://127.0.0.1:1"}), status, zap.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discovery/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"UP"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discovery/mdns", nil))
	assert.JSONEq(t, `{"serviceName":"api-gateway"}`, rec.Body.String())
}

func TestGateway_Metrics(t *testing.T) {
	h, err := NewHandler(testGatewayConfig(map[string]string{"/api/auth": "http://127.0.0.1:1"}), discovery.StaticStatus{}, zap.NewNop())
	require.NoError(t, err)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health",service="api-gateway",status="200"}`)
}

func TestGateway_RateLimit(t *testing.T) {
	cfg := testGatewayConfig(map[string]string{"/api/auth": "http://127.0.0.1:1"})
	cfg.RateLimitPerSecond = 1
	cfg.RateLimitBurst = 2
	h, err := NewHandler(cfg, discovery.StaticStatus{}, zap.NewNop())
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients have their own bucket
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateway_RateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := testGatewayConfig(map[string]string{"/api/auth": "http://127.0.0.1:1"})
	cfg.RateLimitPerSecond = 1
	cfg.RateLimitBurst = 2
	h, err := NewHandler(cfg, discovery.StaticStatus{}, zap.NewNop())
	require.NoError(t, err)

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 18, limited)
}

func TestRateLimiter_ClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	l := NewRateLimiter(1, 1, trusted)

	tests := []struct {
		name   string
		remote string
		xff    []string
		want   string
	}{
		{name: "untrusted peer without header", remote: "203.0.113.7:1", want: "203.0.113.7"},
		{name: "untrusted peer header ignored", remote: "203.0.113.7:1", xff: []string{"1.2.3.4"}, want: "203.0.113.7"},
		{name: "trusted peer without header", remote: "10.1.1.1:1", want: "10.1.1.1"},
		{name: "trusted peer single hop", remote: "10.1.1.1:1", xff: []string{"198.51.100.9"}, want: "198.51.100.9"},
		{name: "spoofed left entries skipped", remote: "10.1.1.1:1", xff: []string{"1.2.3.4, 198.51.100.9"}, want: "198.51.100.9"},
		{name: "chain of trusted proxies", remote: "10.1.1.1:1", xff: []string{"198.51.100.9, 10.2.2.2"}, want: "198.51.100.9"},
		{name: "repeated headers", remote: "10.1.1.1:1", xff: []string{"1.2.3.4", "198.51.100.9"}, want: "198.51.100.9"},
		{name: "garbage hop", remote: "10.1.1.1:1", xff: []string{"nonsense"}, want: "10.1.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, l.clientIP(req))
		})
	}
}

func TestGateway_LoggingFilterIsOutermost(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := testGatewayConfig(map[string]string{"/api/auth": "http://127.0.0.1:1"})
	cfg.RateLimitPerSecond = 1
	cfg.RateLimitBurst = 1
	h, err := NewHandler(cfg, discovery.StaticStatus{}, zap.New(core))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.9:1"
		h.ServeHTTP(httptest.NewRecorder(), req.WithContext(context.Background()))
	}

	// Requests rejected by inner middleware are still logged
	responses := logs.FilterMessage("response").All()
	require.Len(t, responses, 2)
	assert.EqualValues(t, http.StatusOK, responses[0].ContextMap()["status"])
	assert.EqualValues(t, http.StatusTooManyRequests, responses[1].ContextMap()["status"])
	assert.Equal(t, 2, logs.FilterMessage("request").Len())
}
