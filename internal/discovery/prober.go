package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/dom/attendance-platform/internal/metrics"
	"go.uber.org/zap"
)

// HealthPath is probed on every upstream.
const HealthPath = "/api/discovery/health"

// UpstreamState is the last probe outcome for one upstream.
type UpstreamState struct {
	URL       string `json:"url"`
	Up        bool   `json:"up"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latencyMs"`
	CheckedAt int64  `json:"checkedAt"`
}

// UpstreamProber polls the health endpoint of every gateway upstream and
// serves the latest results as its status snapshot.
type UpstreamProber struct {
	serviceName string
	upstreams   map[string]string
	client      *http.Client
	log         *zap.Logger

	mu     sync.RWMutex
	states map[string]UpstreamState
}

// NewUpstreamProber takes upstreams keyed by a display name, usually the
// route prefix they serve.
func NewUpstreamProber(serviceName string, upstreams map[string]string, timeout time.Duration, log *zap.Logger) *UpstreamProber {
	return &UpstreamProber{
		serviceName: serviceName,
		upstreams:   upstreams,
		client:      &http.Client{Timeout: timeout},
		log:         log.Named("prober"),
		states:      make(map[string]UpstreamState, len(upstreams)),
	}
}

// Probe checks every upstream concurrently. It returns an error naming the
// upstreams that are down.
func (p *UpstreamProber) Probe(ctx context.Context) error {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]UpstreamState, len(p.upstreams))
	)

	for name, base := range p.upstreams {
		wg.Add(1)
		go func(name, base string) {
			defer wg.Done()
			state := p.probeOne(ctx, base)
			mu.Lock()
			results[name] = state
			mu.Unlock()
		}(name, base)
	}
	wg.Wait()

	p.mu.Lock()
	p.states = results
	p.mu.Unlock()

	var down []string
	for name, state := range results {
		up := 0.0
		if state.Up {
			up = 1
		} else {
			down = append(down, name)
		}
		metrics.UpstreamUp.WithLabelValues(name).Set(up)
	}
	if len(down) > 0 {
		sort.Strings(down)
		return fmt.Errorf("upstreams down: %v", down)
	}
	return nil
}

func (p *UpstreamProber) probeOne(ctx context.Context, baseURL string) UpstreamState {
	start := time.Now()
	state := UpstreamState{URL: baseURL}

	target, err := url.JoinPath(baseURL, HealthPath)
	if err == nil {
		err = p.get(ctx, target)
	}
	state.LatencyMs = time.Since(start).Milliseconds()
	state.CheckedAt = time.Now().UnixMilli()
	if err != nil {
		state.Error = err.Error()
		p.log.Debug("upstream probe failed", zap.String("url", baseURL), zap.Error(err))
		return state
	}
	state.Up = true
	return state
}

func (p *UpstreamProber) get(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}
	return nil
}

// Status reports the gateway itself plus the last known upstream states.
// Upstreams that were never probed are omitted.
func (p *UpstreamProber) Status(context.Context) map[string]any {
	p.mu.RLock()
	upstreams := make(map[string]UpstreamState, len(p.states))
	for name, state := range p.states {
		upstreams[name] = state
	}
	p.mu.RUnlock()

	healthy := 0
	for _, state := range upstreams {
		if state.Up {
			healthy++
		}
	}

	return map[string]any{
		"serviceName":      p.serviceName,
		"active":           true,
		"upstreams":        upstreams,
		"upstreamCount":    len(p.upstreams),
		"healthyUpstreams": healthy,
	}
}
