package workspace

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/blobspace/config"
	"github.com/wippyai/blobspace/errors"
	"github.com/wippyai/blobspace/graph"
	"github.com/wippyai/blobspace/operator"
	"github.com/wippyai/blobspace/plan"
	"github.com/wippyai/blobspace/tensor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// lifecycle records net construction and closing in order.
type lifecycle struct {
	mu     sync.Mutex
	events []string
	builds map[string]int
}

type trackedNet struct {
	lc   *lifecycle
	name string
	fail bool
}

func (n *trackedNet) Name() string { return n.name }

func (n *trackedNet) Run(context.Context) error {
	if n.fail {
		return fmt.Errorf("net %s failed", n.name)
	}
	n.lc.record("run " + n.name)
	return nil
}

func (n *trackedNet) Close(context.Context) error {
	n.lc.record("close " + n.name)
	return nil
}

func (l *lifecycle) record(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

// registry returns a net registry with a "tracked" type. A "broken" type
// always fails construction and a "failing" type fails every run.
func (l *lifecycle) registry(t *testing.T) *graph.Registry {
	t.Helper()
	reg := graph.NewRegistry(nil)
	build := func(fail bool) graph.Constructor {
		return func(_ context.Context, def graph.Def, _ graph.Workspace, _ *operator.Registry) (graph.Net, error) {
			l.mu.Lock()
			l.builds[def.Name]++
			id := fmt.Sprintf("%s#%d", def.Name, l.builds[def.Name])
			l.events = append(l.events, "build "+id)
			l.mu.Unlock()
			return &trackedNet{lc: l, name: id, fail: fail}, nil
		}
	}
	if err := reg.Register("tracked", build(false)); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("failing", build(true)); err != nil {
		t.Fatal(err)
	}
	err := reg.Register("broken", func(context.Context, graph.Def, graph.Workspace, *operator.Registry) (graph.Net, error) {
		return nil, fmt.Errorf("cannot build")
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func newTracked(t *testing.T, opts ...Option) (*Workspace, *lifecycle) {
	t.Helper()
	lc := &lifecycle{builds: make(map[string]int)}
	ws := New(append([]Option{WithNetRegistry(lc.registry(t))}, opts...)...)
	t.Cleanup(func() { _ = ws.Close(context.Background()) })
	return ws, lc
}

func fill(out string, value float64, shape ...any) operator.Def {
	args := map[string]any{"value": value}
	if len(shape) > 0 {
		args["shape"] = shape
	}
	return operator.Def{Type: "ConstantFill", Outputs: []string{out}, Args: args}
}

func values(t *testing.T, ws *Workspace, name string) []float32 {
	t.Helper()
	b, ok := ws.GetBlob(name)
	if !ok {
		t.Fatalf("blob %q missing", name)
	}
	v, ok := b.Get().(*tensor.Tensor)
	if !ok {
		t.Fatalf("blob %q holds %s, want tensor", name, b.TypeName())
	}
	return v.Data()
}

func TestCreateBlobIdempotent(t *testing.T) {
	ws := New()
	a := ws.CreateBlob("x")
	a.Set(tensor.Scalar(3))
	b := ws.CreateBlob("x")
	if a != b {
		t.Fatal("CreateBlob returned a different blob for existing name")
	}
	if b.IsEmpty() {
		t.Fatal("existing blob content was discarded")
	}
	if !ws.HasBlob("x") || ws.HasBlob("y") {
		t.Fatal("HasBlob mismatch")
	}
}

func TestRemoveBlob(t *testing.T) {
	ws := New()
	ws.CreateBlob("x").Set(tensor.New(4))
	if !ws.RemoveBlob("x") {
		t.Fatal("RemoveBlob(x) = false")
	}
	if ws.RemoveBlob("x") {
		t.Fatal("second RemoveBlob(x) = true")
	}
	if _, ok := ws.GetBlob("x"); ok {
		t.Fatal("removed blob still visible")
	}
}

func TestParentFallthrough(t *testing.T) {
	parent := New()
	shared := parent.CreateBlob("w")
	child := New(WithParent(parent))

	got, ok := child.GetBlob("w")
	if !ok || got != shared {
		t.Fatal("child did not see parent blob")
	}
	if child.Parent() != parent {
		t.Fatal("Parent() mismatch")
	}

	local := child.CreateBlob("w")
	if local == shared {
		t.Fatal("CreateBlob in child returned the parent's blob")
	}
	if got, _ := child.GetBlob("w"); got != local {
		t.Fatal("local blob does not shadow the parent's")
	}
	if got, _ := parent.GetBlob("w"); got != shared {
		t.Fatal("parent blob changed through child")
	}

	if !child.RemoveBlob("w") {
		t.Fatal("RemoveBlob of local shadow failed")
	}
	if child.RemoveBlob("w") {
		t.Fatal("child removed the parent's blob")
	}
	if got, _ := child.GetBlob("w"); got != shared {
		t.Fatal("parent blob not visible after removing shadow")
	}
	if !parent.HasBlob("w") {
		t.Fatal("parent lost its blob")
	}
}

func TestBlobsListing(t *testing.T) {
	parent := New()
	parent.CreateBlob("c")
	parent.CreateBlob("b")
	child := New(WithParent(parent))
	child.CreateBlob("z")
	child.CreateBlob("a")

	if diff := cmp.Diff([]string{"a", "z"}, child.LocalBlobs()); diff != "" {
		t.Fatalf("LocalBlobs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "z", "b", "c"}, child.Blobs()); diff != "" {
		t.Fatalf("Blobs mismatch (-want +got):\n%s", diff)
	}
}

func TestChildNetsNotInherited(t *testing.T) {
	ctx := context.Background()
	parent, _ := newTracked(t)
	if _, err := parent.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatal(err)
	}
	child := New(WithParent(parent))
	if _, ok := child.GetNet("n"); ok {
		t.Fatal("child sees the parent's net")
	}
	if child.RunNet(ctx, "n") {
		t.Fatal("child ran the parent's net")
	}
	if _, err := child.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatalf("child inherits the parent's net registry: %v", err)
	}
}

func TestCreateNetRequiresName(t *testing.T) {
	ws, _ := newTracked(t)
	_, err := ws.CreateNet(context.Background(), graph.Def{Type: "tracked"}, false)
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCreateNetDuplicate(t *testing.T) {
	ctx := context.Background()
	ws, lc := newTracked(t)
	first, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false)
	if !errors.IsKind(err, errors.KindDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if got, _ := ws.GetNet("n"); got != first {
		t.Fatal("duplicate registration replaced the existing net")
	}
	if diff := cmp.Diff([]string{"build n#1"}, lc.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateNetOverwriteReleasesFirst(t *testing.T) {
	ctx := context.Background()
	ws, lc := newTracked(t)
	if _, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatal(err)
	}
	second, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if second.Name() != "n#2" {
		t.Fatalf("registered %s, want n#2", second.Name())
	}

	want := []string{"build n#1", "close n#1", "build n#2"}
	if diff := cmp.Diff(want, lc.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateNetFailureLeavesNoEntry(t *testing.T) {
	ctx := context.Background()
	ws, lc := newTracked(t)

	_, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "nope"}, false)
	if !errors.IsKind(err, errors.KindUnknownType) {
		t.Fatalf("expected unknown type, got %v", err)
	}
	if _, ok := ws.GetNet("n"); ok {
		t.Fatal("failed construction left a registry entry")
	}

	if _, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "broken"}, true); err == nil {
		t.Fatal("expected construction error")
	}
	if _, ok := ws.GetNet("n"); ok {
		t.Fatal("failed overwrite left a registry entry")
	}
	if diff := cmp.Diff([]string{"build n#1", "close n#1"}, lc.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteNet(t *testing.T) {
	ctx := context.Background()
	ws, lc := newTracked(t)
	if _, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatal(err)
	}
	if !ws.DeleteNet(ctx, "n") {
		t.Fatal("DeleteNet(n) = false")
	}
	if ws.DeleteNet(ctx, "n") {
		t.Fatal("second DeleteNet(n) = true")
	}
	if len(ws.Nets()) != 0 {
		t.Fatalf("Nets() = %v after delete", ws.Nets())
	}
	if diff := cmp.Diff([]string{"build n#1", "close n#1"}, lc.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestNetsSorted(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTracked(t)
	for _, name := range []string{"c", "a", "b"} {
		if _, err := ws.CreateNet(ctx, graph.Def{Name: name, Type: "tracked"}, false); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ws.Nets()); diff != "" {
		t.Fatalf("Nets mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNet(t *testing.T) {
	ctx := context.Background()
	ws := New()
	def := graph.Def{Name: "sum", Ops: []operator.Def{
		fill("a", 2, 3),
		fill("b", 5, 3),
		{Type: "Add", Inputs: []string{"a", "b"}, Outputs: []string{"c"}},
	}}
	if _, err := ws.CreateNet(ctx, def, false); err != nil {
		t.Fatal(err)
	}
	if !ws.RunNet(ctx, "sum") {
		t.Fatal("RunNet(sum) = false")
	}
	if diff := cmp.Diff([]float32{7, 7, 7}, values(t, ws, "c")); diff != "" {
		t.Fatalf("c mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNetSoftFailures(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	ws, _ := newTracked(t, WithLogger(zap.New(core)))

	if ws.RunNet(ctx, "missing") {
		t.Fatal("RunNet on unregistered name = true")
	}
	if logs.FilterMessage("net does not exist yet").Len() != 1 {
		t.Fatal("missing net was not logged")
	}

	if _, err := ws.CreateNet(ctx, graph.Def{Name: "bad", Type: "failing"}, false); err != nil {
		t.Fatal(err)
	}
	if ws.RunNet(ctx, "bad") {
		t.Fatal("RunNet on failing net = true")
	}
	if logs.FilterMessage("running net").Len() != 1 {
		t.Fatal("run failure was not logged")
	}
}

func TestRunNetOnce(t *testing.T) {
	ctx := context.Background()
	ws, lc := newTracked(t)

	ok, err := ws.RunNetOnce(ctx, graph.Def{Name: "once", Type: "tracked"})
	if err != nil || !ok {
		t.Fatalf("RunNetOnce = %v, %v", ok, err)
	}
	if len(ws.Nets()) != 0 {
		t.Fatalf("transient net registered: %v", ws.Nets())
	}
	want := []string{"build once#1", "run once#1", "close once#1"}
	if diff := cmp.Diff(want, lc.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}

	ok, err = ws.RunNetOnce(ctx, graph.Def{Name: "bad", Type: "failing"})
	if err != nil || ok {
		t.Fatalf("failing run = %v, %v; want false, nil", ok, err)
	}

	if _, err := ws.RunNetOnce(ctx, graph.Def{Name: "x", Type: "nope"}); !errors.IsKind(err, errors.KindUnknownType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestRunNetOnceDoesNotTouchRegisteredNet(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTracked(t)
	reg, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := ws.RunNetOnce(ctx, graph.Def{Name: "n", Type: "tracked"}); err != nil || !ok {
		t.Fatalf("RunNetOnce = %v, %v", ok, err)
	}
	if got, _ := ws.GetNet("n"); got != reg {
		t.Fatal("transient run replaced the registered net")
	}
}

func TestRunOperatorOnce(t *testing.T) {
	ctx := context.Background()
	ws := New()

	if !ws.RunOperatorOnce(ctx, fill("x", 4, 2)) {
		t.Fatal("RunOperatorOnce(ConstantFill) = false")
	}
	if diff := cmp.Diff([]float32{4, 4}, values(t, ws, "x")); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}

	if ws.RunOperatorOnce(ctx, operator.Def{Type: "ConstantFill", Outputs: []string{"neg"}, Args: map[string]any{"shape": []any{-2, 3}}}) {
		t.Fatal("ConstantFill with a negative dimension ran")
	}
	if ws.RunOperatorOnce(ctx, operator.Def{Type: "NoSuchOp"}) {
		t.Fatal("unknown operator type ran")
	}
	if ws.RunOperatorOnce(ctx, operator.Def{Type: "Add", Inputs: []string{"x", "missing"}, Outputs: []string{"y"}}) {
		t.Fatal("operator with a missing input ran")
	}
	if ws.HasBlob("y") {
		t.Fatal("failed construction created an output blob")
	}
}

func TestRunPlan(t *testing.T) {
	ctx := context.Background()
	ws := New()
	p := plan.Def{
		Name: "p",
		Nets: []graph.Def{
			{Name: "init", Ops: []operator.Def{fill("x", 1, 2)}},
			{Name: "step", Ops: []operator.Def{
				{Type: "Add", Inputs: []string{"x", "x"}, Outputs: []string{"x"}},
			}},
		},
		Steps: []plan.Step{
			{Nets: []string{"init"}},
			{Nets: []string{"step"}, NumIter: 3},
		},
	}
	if !ws.RunPlan(ctx, p, nil) {
		t.Fatal("RunPlan = false")
	}
	if diff := cmp.Diff([]float32{8, 8}, values(t, ws, "x")); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"init", "step"}, ws.Nets()); diff != "" {
		t.Fatalf("plan nets mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPlanDelegatesToRunner(t *testing.T) {
	var gotWS plan.Workspace
	var gotIter bool
	runner := plan.RunnerFunc(func(_ context.Context, ws plan.Workspace, p plan.Def, sc plan.ShouldContinue) bool {
		gotWS = ws
		gotIter = sc(0)
		return p.Name == "ok"
	})
	ws := New(WithPlanRunner(runner))

	if !ws.RunPlan(context.Background(), plan.Def{Name: "ok"}, nil) {
		t.Fatal("RunPlan did not return the runner's result")
	}
	if gotWS != plan.Workspace(ws) {
		t.Fatal("runner received a different workspace")
	}
	if !gotIter {
		t.Fatal("nil shouldContinue should always continue")
	}
	if ws.RunPlan(context.Background(), plan.Def{Name: "no"}, nil) {
		t.Fatal("RunPlan = true for a failing runner")
	}
}

type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) OnWorkspaceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestObserverEvents(t *testing.T) {
	ctx := context.Background()
	ws, _ := newTracked(t)
	obs := &recordingObserver{}
	ws.Subscribe(obs)

	ws.CreateBlob("b")
	ws.CreateBlob("b")
	ws.RemoveBlob("b")
	if _, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatal(err)
	}
	ws.DeleteNet(ctx, "n")

	ws.Unsubscribe(obs)
	ws.CreateBlob("ignored")

	want := []Event{
		{Type: EventBlobCreated, Name: "b"},
		{Type: EventBlobRemoved, Name: "b"},
		{Type: EventNetCreated, Name: "n"},
		{Type: EventNetDeleted, Name: "n"},
	}
	if diff := cmp.Diff(want, obs.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestGetBlobMissLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ws := New(WithLogger(zap.New(core)))

	if _, ok := ws.GetBlob("nope"); ok {
		t.Fatal("GetBlob(nope) found a blob")
	}
	if ws.HasBlob("nope") {
		t.Fatal("HasBlob(nope) = true")
	}
	if got := logs.FilterMessage("blob does not exist").Len(); got != 1 {
		t.Fatalf("logged %d warnings, want 1", got)
	}
}

func TestThreadPoolShared(t *testing.T) {
	ws := New()
	const callers = 16

	pools := make(chan any, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pools <- ws.ThreadPool()
		}()
	}
	wg.Wait()
	close(pools)

	first := ws.ThreadPool()
	for p := range pools {
		if p != any(first) {
			t.Fatal("concurrent ThreadPool calls returned different pools")
		}
	}
}

func TestThreadPoolFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Threadpool.Threads = 3
	ws := New(WithConfig(cfg))
	if got := ws.ThreadPool().Size(); got != 3 {
		t.Fatalf("pool size = %d, want 3", got)
	}
}

func TestCloseReleasesNetsAndBlobs(t *testing.T) {
	ctx := context.Background()
	lc := &lifecycle{builds: make(map[string]int)}
	parent := New()
	parent.CreateBlob("keep").Set(tensor.New(1))
	ws := New(WithParent(parent), WithNetRegistry(lc.registry(t)))

	b := ws.CreateBlob("x")
	b.Set(tensor.New(8))
	if _, err := ws.CreateNet(ctx, graph.Def{Name: "n", Type: "tracked"}, false); err != nil {
		t.Fatal(err)
	}

	if err := ws.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := ws.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !b.IsEmpty() {
		t.Fatal("blob payload not released")
	}
	if diff := cmp.Diff([]string{"build n#1", "close n#1"}, lc.events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if keep, _ := parent.GetBlob("keep"); keep.IsEmpty() {
		t.Fatal("closing the child released a parent blob")
	}
}

func TestClosePrintsSizesWhenConfigured(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.Default()
	cfg.PrintBlobSizesAtExit = true
	ws := New(WithConfig(cfg), WithLogger(zap.New(core)))
	ws.CreateBlob("x").Set(tensor.New(2))

	if err := ws.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("---- Workspace blobs: ----").Len() != 1 {
		t.Fatal("size report header not logged")
	}
	if logs.FilterMessage("x;2,;8;100%").Len() != 1 {
		t.Fatalf("size row not logged: %v", logs.All())
	}
}

func TestWorkspaceIDs(t *testing.T) {
	a, b := New(), New()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("IDs %q and %q are not unique", a.ID(), b.ID())
	}
}
