package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DiscoveryPrefix is served by the gateway itself.
const DiscoveryPrefix = "/api/discovery"

// Route forwards every path under Prefix to Upstream.
type Route struct {
	Prefix   string
	Upstream *url.URL
}

// ParseRoutes turns the prefix=upstream table from config into routes,
// longest prefix first.
func ParseRoutes(table map[string]string) ([]Route, error) {
	routes := make([]Route, 0, len(table))
	for prefix, upstream := range table {
		u, err := url.Parse(upstream)
		if err != nil {
			return nil, err
		}
		prefix = "/" + strings.Trim(prefix, "/")
		if prefix == "/" || prefix == DiscoveryPrefix || strings.HasPrefix(prefix, DiscoveryPrefix+"/") {
			return nil, fmt.Errorf("route prefix %q is reserved", prefix)
		}
		routes = append(routes, Route{Prefix: prefix, Upstream: u})
	}
	sort.Slice(routes, func(i, j int) bool {
		if len(routes[i].Prefix) != len(routes[j].Prefix) {
			return len(routes[i].Prefix) > len(routes[j].Prefix)
		}
		return routes[i].Prefix < routes[j].Prefix
	})
	return routes, nil
}

func newReverseProxy(target *url.URL, log *zap.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("upstream request failed",
				zap.String("upstream", target.String()),
				zap.String("uri", r.URL.RequestURI()),
				zap.Error(err),
			)
			http.Error(w, "Bad gateway", http.StatusBadGateway)
		},
	}
}

// mountRoutes registers a reverse proxy for every route on r.
func mountRoutes(r chi.Router, routes []Route, log *zap.Logger) {
	for _, route := range routes {
		proxy := newReverseProxy(route.Upstream, log)
		r.Handle(route.Prefix, proxy)
		r.Handle(route.Prefix+"/*", proxy)
	}
}
