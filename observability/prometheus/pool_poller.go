package prometheus

import (
	"context"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PendingProvider reports how much work is waiting, e.g. a thread.Pool.
type PendingProvider interface {
	Pending() int
}

// PoolPoller periodically exports the backlog of worker pools into
// a Prometheus gauge.
type PoolPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PendingProvider

	poolPending *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoolPoller creates a pool poller and registers its collector.
func NewPoolPoller(namespace string, reg prom.Registerer, interval time.Duration) (*PoolPoller, error) {
	if namespace == "" {
		namespace = "asyncgui"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolPending := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "pool_pending",
		Help:      "Functions queued per worker pool.",
	}, []string{"pool"})

	var err error
	if poolPending, err = registerCollector(reg, poolPending); err != nil {
		return nil, err
	}

	return &PoolPoller{
		interval:    interval,
		pools:       make(map[string]PendingProvider),
		poolPending: poolPending,
	}, nil
}

// AddPool adds or replaces a pool by name.
func (p *PoolPoller) AddPool(name string, pool PendingProvider) {
	if p == nil || pool == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = pool
	p.poolsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *PoolPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx, p.done)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *PoolPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()

	cancel()
	<-done
}

func (p *PoolPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *PoolPoller) collectOnce() {
	p.poolsMu.RLock()
	defer p.poolsMu.RUnlock()

	for name, pool := range p.pools {
		p.poolPending.WithLabelValues(name).Set(float64(pool.Pending()))
	}
}
