package workspace

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/config"
	"github.com/wippyai/blobspace/graph"
	"github.com/wippyai/blobspace/operator"
	"github.com/wippyai/blobspace/plan"
	"github.com/wippyai/blobspace/threadpool"
)

// Workspace owns named blobs and nets and dispatches their execution.
type Workspace struct {
	parent  *Workspace
	logger  *zap.Logger
	netReg  *graph.Registry
	opReg   *operator.Registry
	planner plan.Runner
	pool    *threadpool.Provider
	blobs   map[string]*blob.Blob
	nets    map[string]graph.Net

	observers []Observer
	obsMu     sync.RWMutex

	id         string
	threads    int
	androidCap bool
	iosCap     bool
	printSizes bool
	closed     bool
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithParent makes blob lookups fall through to parent. The parent must
// outlive the workspace.
func WithParent(parent *Workspace) Option {
	return func(w *Workspace) { w.parent = parent }
}

// WithLogger sets the workspace logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) { w.logger = l }
}

// WithNetRegistry sets the registry nets are constructed from. Its operator
// registry is used unless WithOperatorRegistry is also given.
func WithNetRegistry(r *graph.Registry) Option {
	return func(w *Workspace) { w.netReg = r }
}

// WithOperatorRegistry sets the registry RunOperatorOnce constructs from.
func WithOperatorRegistry(r *operator.Registry) Option {
	return func(w *Workspace) { w.opReg = r }
}

// WithPlanRunner replaces the plan executor used by RunPlan.
func WithPlanRunner(r plan.Runner) Option {
	return func(w *Workspace) { w.planner = r }
}

// WithThreadPoolProvider supplies the lazily built pool.
func WithThreadPoolProvider(p *threadpool.Provider) Option {
	return func(w *Workspace) { w.pool = p }
}

// WithConfig applies pool sizing and exit reporting settings.
func WithConfig(cfg config.Config) Option {
	return func(w *Workspace) {
		w.printSizes = cfg.PrintBlobSizesAtExit
		w.androidCap = cfg.Threadpool.AndroidCap
		w.iosCap = cfg.Threadpool.IOSCap
		w.threads = cfg.Threadpool.Threads
	}
}

// New creates an empty workspace.
func New(opts ...Option) *Workspace {
	def := config.Default()
	w := &Workspace{
		id:         uuid.NewString(),
		blobs:      make(map[string]*blob.Blob),
		nets:       make(map[string]graph.Net),
		androidCap: def.Threadpool.AndroidCap,
		iosCap:     def.Threadpool.IOSCap,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.parent != nil {
		if w.logger == nil {
			w.logger = w.parent.logger
		}
		if w.netReg == nil {
			w.netReg = w.parent.netReg
		}
		if w.opReg == nil && w.netReg == w.parent.netReg {
			w.opReg = w.parent.opReg
		}
		if w.planner == nil {
			w.planner = w.parent.planner
		}
	}
	if w.logger == nil {
		w.logger = Logger()
	}
	w.logger = w.logger.With(zap.String("workspace", w.id))

	if w.netReg == nil {
		w.netReg = graph.Default
	}
	if w.opReg == nil {
		w.opReg = w.netReg.Operators()
	}
	if w.planner == nil {
		w.planner = plan.NewExecutor(w.logger)
	}
	if w.pool == nil {
		w.pool = w.newProvider()
	}
	return w
}

func (w *Workspace) newProvider() *threadpool.Provider {
	opts := []threadpool.ProviderOption{
		threadpool.WithLogger(w.logger),
		threadpool.WithCap(threadpool.CapEnabled(runtime.GOOS, w.androidCap, w.iosCap)),
	}
	if w.threads > 0 {
		n := w.threads
		opts = append(opts, threadpool.WithCores(func() int { return n }), threadpool.WithCap(false))
	}
	return threadpool.NewProvider(opts...)
}

// ID returns the workspace's unique identifier.
func (w *Workspace) ID() string {
	return w.id
}

// Parent returns the parent workspace, or nil.
func (w *Workspace) Parent() *Workspace {
	return w.parent
}

// ThreadPool returns the workspace's worker pool, building it on first use.
// Concurrent callers receive the same pool.
func (w *Workspace) ThreadPool() *threadpool.Pool {
	return w.pool.Get()
}

// Close releases every net and blob the workspace owns. When configured it
// first logs the blob size report. The parent is not touched. The thread
// pool starts goroutines only inside Run and Go, so it has nothing to release.
func (w *Workspace) Close(ctx context.Context) error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.printSizes {
		w.PrintBlobSizes()
	}

	var first error
	for _, name := range w.Nets() {
		if err := graph.CloseNet(ctx, w.nets[name]); err != nil {
			w.logger.Warn("closing net", zap.String("net", name), zap.Error(err))
			if first == nil {
				first = err
			}
		}
		delete(w.nets, name)
	}
	for name, b := range w.blobs {
		b.Reset()
		delete(w.blobs, name)
	}
	return first
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
