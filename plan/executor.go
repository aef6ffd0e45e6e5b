package plan

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/blobspace/blob"
	"github.com/wippyai/blobspace/errors"
)

// Executor is the default Runner.
type Executor struct {
	logger *zap.Logger
}

// NewExecutor creates an executor. A nil logger discards output.
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger}
}

// Run creates the plan's nets (replacing same-named nets) and executes its
// steps. Failures are logged and reported as false.
func (e *Executor) Run(ctx context.Context, ws Workspace, p Def, shouldContinue ShouldContinue) bool {
	if shouldContinue == nil {
		shouldContinue = AlwaysContinue
	}
	log := e.logger.With(zap.String("plan", p.Name))

	if err := e.run(ctx, ws, p, shouldContinue, log); err != nil {
		log.Error("plan failed", zap.Error(err))
		return false
	}
	log.Debug("plan finished")
	return true
}

type execution struct {
	ws    Workspace
	sc    ShouldContinue
	log   *zap.Logger
	ran   map[*Step]bool
	ranMu sync.Mutex
}

func (e *Executor) run(ctx context.Context, ws Workspace, p Def, sc ShouldContinue, log *zap.Logger) error {
	known := make(map[string]bool, len(p.Nets))
	for _, nd := range p.Nets {
		if _, err := ws.CreateNet(ctx, nd, true); err != nil {
			return errors.New(errors.PhasePlan, errors.KindConstruction).
				Name(nd.Name).Detail("create net").Cause(err).Build()
		}
		known[nd.Name] = true
	}

	for i := range p.Steps {
		if err := validate(&p.Steps[i], ws, known); err != nil {
			return err
		}
	}

	x := &execution{ws: ws, sc: sc, log: log, ran: make(map[*Step]bool)}
	for i := range p.Steps {
		if err := x.step(ctx, &p.Steps[i]); err != nil {
			return err
		}
	}
	return nil
}

func validate(s *Step, ws Workspace, known map[string]bool) error {
	if len(s.Nets) > 0 && len(s.Substeps) > 0 {
		return errors.New(errors.PhasePlan, errors.KindInvalidInput).
			Name(s.Name).Detail("step has both nets and substeps").Build()
	}
	if s.NumIter < 0 {
		return errors.New(errors.PhasePlan, errors.KindInvalidInput).
			Name(s.Name).Value(s.NumIter).Detail("negative num_iter %d", s.NumIter).Build()
	}
	for _, name := range s.Nets {
		if known[name] {
			continue
		}
		if _, ok := ws.GetNet(name); !ok {
			return errors.NotFound(errors.PhasePlan, "net", name)
		}
	}
	for i := range s.Substeps {
		if err := validate(&s.Substeps[i], ws, known); err != nil {
			return err
		}
	}
	return nil
}

func (x *execution) step(ctx context.Context, s *Step) error {
	if s.OnlyOnce {
		x.ranMu.Lock()
		done := x.ran[s]
		x.ran[s] = true
		x.ranMu.Unlock()
		if done {
			return nil
		}
	}

	numIter := s.NumIter
	unbounded := numIter == 0 && s.ShouldStopBlob != ""
	if numIter == 0 {
		numIter = 1
	}

	for iter := int64(0); unbounded || iter < numIter; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !x.sc(iter) {
			x.log.Debug("step stopped by predicate", zap.String("step", s.Name), zap.Int64("iteration", iter))
			return nil
		}

		if err := x.body(ctx, s); err != nil {
			return err
		}

		if s.ShouldStopBlob != "" {
			stop, err := x.shouldStop(s.ShouldStopBlob)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
	return nil
}

func (x *execution) body(ctx context.Context, s *Step) error {
	if len(s.Substeps) == 0 {
		for _, name := range s.Nets {
			if !x.ws.RunNet(ctx, name) {
				return errors.New(errors.PhasePlan, errors.KindRunFailed).
					Name(name).Detail("net failed in step %q", s.Name).Build()
			}
		}
		return nil
	}

	if !s.ConcurrentSubsteps {
		for i := range s.Substeps {
			if err := x.step(ctx, &s.Substeps[i]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range s.Substeps {
		sub := &s.Substeps[i]
		g.Go(func() error {
			return x.step(gctx, sub)
		})
	}
	return g.Wait()
}

func (x *execution) shouldStop(name string) (bool, error) {
	b, ok := x.ws.GetBlob(name)
	if !ok {
		return false, errors.NotFound(errors.PhasePlan, "should_stop_blob", name)
	}
	if b.IsEmpty() {
		return false, nil
	}
	stop, ok := blob.As[bool](b)
	if !ok {
		return false, errors.TypeMismatch(errors.PhasePlan, name, "bool", b.TypeName())
	}
	return stop, nil
}
