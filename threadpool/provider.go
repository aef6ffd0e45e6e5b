package threadpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Provider lazily constructs a single Pool.
type Provider struct {
	logger *zap.Logger
	cores  func() int
	pool   atomic.Pointer[Pool]
	mu     sync.Mutex
	capped bool
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithCores overrides the core count source (runtime.NumCPU by default).
func WithCores(fn func() int) ProviderOption {
	return func(p *Provider) { p.cores = fn }
}

// WithCap enables or disables the mobile cap table.
func WithCap(capped bool) ProviderOption {
	return func(p *Provider) { p.capped = capped }
}

// WithLogger sets the logger used to report construction.
func WithLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates a provider. By default the cap follows CapEnabled for
// the running GOOS with the Android cap on and the iOS cap off.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		logger: zap.NewNop(),
		cores:  runtime.NumCPU,
		capped: CapEnabled(runtime.GOOS, true, false),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the pool, constructing it on first call.
func (p *Provider) Get() *Pool {
	if pool := p.pool.Load(); pool != nil {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if pool := p.pool.Load(); pool != nil {
		return pool
	}

	n := NumThreads(p.cores(), p.capped)
	p.logger.Info("constructing thread pool", zap.Int("threads", n))
	pool := New(n)
	p.pool.Store(pool)
	return pool
}
