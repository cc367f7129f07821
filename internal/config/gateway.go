package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// GatewayConfig configures the API gateway binary.
type GatewayConfig struct {
	Port        string `env:"PORT" envDefault:"8000"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"api-gateway"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Routes maps a path prefix to the upstream base URL, e.g.
	// GATEWAY_ROUTES="/api/auth=http://auth:8080,/api/super=http://org:8080"
	Routes map[string]string `env:"GATEWAY_ROUTES" envSeparator:"," envKeyValSeparator:"="`

	RateLimitPerSecond int `env:"RATE_LIMIT_PER_SECOND" envDefault:"50"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// TrustedProxies lists the CIDRs or addresses of load balancers allowed
	// to set X-Forwarded-For. Empty means the peer address is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	ProbeSchedule string        `env:"PROBE_SCHEDULE" envDefault:"@every 30s"`
	ProbeTimeout  time.Duration `env:"PROBE_TIMEOUT" envDefault:"5s"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadGateway reads the gateway configuration from the environment.
func LoadGateway() (*GatewayConfig, error) {
	cfg := &GatewayConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("GATEWAY_ROUTES environment variable is required")
	}

	for prefix, upstream := range cfg.Routes {
		u, err := url.Parse(upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid upstream %q for route %q", upstream, prefix)
		}
	}

	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit values must be positive")
	}

	if _, err := cfg.TrustedProxyPrefixes(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// TrustedProxyPrefixes parses TrustedProxies. Bare addresses become
// single-host prefixes.
func (c *GatewayConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
