package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
	"github.com/custodia-labs/lexmap/internal/logger"
	"github.com/custodia-labs/lexmap/internal/pubsub"
)

// DefaultTTL is how long a probe result or report is trusted.
const DefaultTTL = 5 * time.Second

var _ driven.ConnectivityProbe = (*Monitor)(nil)

// Monitor caches a probe's answer and publishes every change of state.
// Platform code may push state directly with Report.
type Monitor struct {
	probe  driven.ConnectivityProbe
	ttl    time.Duration
	broker *pubsub.Broker[bool]
	now    func() time.Time

	mu      sync.Mutex
	known   bool
	state   bool
	checked time.Time
}

// NewMonitor wraps probe. A zero ttl uses DefaultTTL.
func NewMonitor(probe driven.ConnectivityProbe, ttl time.Duration) *Monitor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Monitor{
		probe:  probe,
		ttl:    ttl,
		broker: pubsub.NewBroker[bool](),
		now:    time.Now,
	}
}

// Connected returns the cached state, probing when it has expired.
func (m *Monitor) Connected(ctx context.Context) bool {
	m.mu.Lock()
	if m.known && m.now().Sub(m.checked) < m.ttl {
		state := m.state
		m.mu.Unlock()
		return state
	}
	m.mu.Unlock()

	state := m.probe.Connected(ctx)
	m.set(state)
	return state
}

// Report records a connectivity change observed outside the probe.
func (m *Monitor) Report(connected bool) {
	m.set(connected)
}

// Subscribe returns a channel of state changes, closed when ctx ends.
func (m *Monitor) Subscribe(ctx context.Context) <-chan pubsub.Event[bool] {
	return m.broker.Subscribe(ctx)
}

// Run probes every interval until ctx ends, so subscribers hear about
// changes even when nothing else calls Connected.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.set(m.probe.Connected(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.set(m.probe.Connected(ctx))
		}
	}
}

// Close stops delivering events.
func (m *Monitor) Close() {
	m.broker.Shutdown()
}

func (m *Monitor) set(state bool) {
	m.mu.Lock()
	changed := !m.known || m.state != state
	m.known = true
	m.state = state
	m.checked = m.now()
	m.mu.Unlock()

	if changed {
		logger.Info("connectivity: connected=%t", state)
		m.broker.Publish(pubsub.ChangedEvent, state)
	}
}
