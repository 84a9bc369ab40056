// Package connectivity decides whether the remote document service is
// reachable.
package connectivity

import (
	"context"
	"net/http"
	"time"

	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/logger"
)

// DefaultProbeTimeout bounds a single reachability check.
const DefaultProbeTimeout = 2 * time.Second

// Verify interface compliance.
var (
	_ driven.ConnectivityProbe = (*HTTPProbe)(nil)
	_ driven.ConnectivityProbe = Static(false)
)

// HTTPProbe sends a HEAD request to the service root. Any HTTP response,
// whatever its status, counts as connected.
type HTTPProbe struct {
	client *http.Client
	url    string
}

// NewHTTPProbe creates a probe for url. A zero timeout uses
// DefaultProbeTimeout.
func NewHTTPProbe(url string, timeout time.Duration) *HTTPProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProbe{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Connected reports whether the service answered.
func (p *HTTPProbe) Connected(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		logger.Debug("connectivity probe: %v", err)
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		logger.Debug("connectivity probe %s: %v", p.url, err)
		return false
	}
	_ = resp.Body.Close()
	return true
}

// Static is a probe with a fixed answer.
type Static bool

// Connected returns the fixed answer.
func (s Static) Connected(context.Context) bool {
	return bool(s)
}
