package gateway

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	bucketTTL         = 5 * time.Minute
)

// RateLimiter applies a token bucket per client IP. Idle buckets age out of
// an expiring LRU. X-Forwarded-For is only honoured when the peer is one of
// the trusted proxies.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	trusted   []netip.Prefix

	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
}

func NewRateLimiter(perSecond, burst int, trusted []netip.Prefix) *RateLimiter {
	return &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		trusted:   trusted,
		buckets:   expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, bucketTTL),
	}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.buckets.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(l.perSecond, l.burst)
	l.buckets.Add(ip, lim)
	return lim
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		if !l.limiter(ip).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the peer address, or, when the peer is a trusted proxy,
// the right-most X-Forwarded-For entry that is not itself a trusted proxy.
func (l *RateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !l.isTrusted(peer) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !l.isTrusted(hop) {
			return hop.Unmap().String()
		}
	}
	return host
}

func (l *RateLimiter) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range l.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
