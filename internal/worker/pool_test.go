package worker

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

// gateInvoker blocks every call until release is closed or the call's
// context ends, and records how many calls ran at once.
type gateInvoker struct {
	release chan struct{}
	started chan struct{}

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	cancelled   int
}

func newGateInvoker() *gateInvoker {
	return &gateInvoker{release: make(chan struct{}), started: make(chan struct{}, 64)}
}

func (g *gateInvoker) Invoke(ctx context.Context, contract, function string, args []string) ([]byte, error) {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.maxInFlight {
		g.maxInFlight = g.inFlight
	}
	g.mu.Unlock()
	g.started <- struct{}{}

	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	select {
	case <-g.release:
		return []byte(`{}`), nil
	case <-ctx.Done():
		g.mu.Lock()
		g.cancelled++
		g.mu.Unlock()
		return nil, ctx.Err()
	}
}

func queryJob(i int, invoker Invoker) *InvocationJob {
	return &InvocationJob{
		Index:      i,
		Invocation: Invocation{Contract: "SourceContract", Function: "querySource", Args: []string{"SOURCE-1"}},
		Invoker:    invoker,
	}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	for _, n := range []int{0, -3} {
		if p := NewPool(context.Background(), n); p.workers != 1 {
			t.Errorf("NewPool(%d): expected 1 worker, got %d", n, p.workers)
		}
	}
}

func TestPool_EveryJobReportsItsIndex(t *testing.T) {
	invoker := newGateInvoker()
	close(invoker.release)

	pool := NewPool(context.Background(), 3)
	pool.Start()
	for i := 0; i < 6; i++ {
		if !pool.Submit(queryJob(i, invoker)) {
			t.Fatalf("job %d dropped by a running pool", i)
		}
	}

	results := pool.Wait()
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	indexes := make([]int, 0, len(results))
	for _, r := range results {
		res := r.(*InvocationResult)
		if res.Error != nil {
			t.Errorf("job %d failed: %v", res.Index, res.Error)
		}
		indexes = append(indexes, res.Index)
	}
	sort.Ints(indexes)
	for i, idx := range indexes {
		if idx != i {
			t.Fatalf("indexes %v, want 0..5", indexes)
		}
	}
}

func TestPool_BoundsConcurrentInvocations(t *testing.T) {
	invoker := newGateInvoker()
	pool := NewPool(context.Background(), 2)
	pool.Start()

	for i := 0; i < 4; i++ {
		pool.Submit(queryJob(i, invoker))
	}
	<-invoker.started
	<-invoker.started
	// both workers are parked in Invoke; give a third a chance to sneak in
	time.Sleep(20 * time.Millisecond)
	close(invoker.release)
	pool.Wait()

	invoker.mu.Lock()
	defer invoker.mu.Unlock()
	if invoker.maxInFlight != 2 {
		t.Errorf("expected at most 2 invocations in flight, saw %d", invoker.maxInFlight)
	}
}

func TestPool_DropsSubmissionsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 4)
	pool.Start()
	cancel()

	// the queue has room; Submit must still refuse every job
	for i := 0; i < 100; i++ {
		if pool.Submit(queryJob(i, newGateInvoker())) {
			t.Fatalf("submission %d accepted after cancel", i)
		}
	}
	pool.Shutdown()
}

func TestPool_ShutdownWithInvokeInFlight(t *testing.T) {
	invoker := newGateInvoker()
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Submit(queryJob(0, invoker))
	<-invoker.started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not interrupt the in-flight invocation")
	}

	invoker.mu.Lock()
	cancelled := invoker.cancelled
	invoker.mu.Unlock()
	if cancelled != 1 {
		t.Errorf("expected the in-flight invocation to see cancellation, got %d", cancelled)
	}

	for range pool.Results() {
	}
	if pool.Submit(queryJob(1, invoker)) {
		t.Error("Submit after Shutdown should drop the job")
	}
}

func TestProcess_ResultOrderFollowsInput(t *testing.T) {
	// later entries finish first
	invoker := invokerFunc(func(ctx context.Context, contract, function string, args []string) ([]byte, error) {
		delay := map[string]time.Duration{"a": 30 * time.Millisecond, "b": 15 * time.Millisecond, "c": 0}[args[0]]
		time.Sleep(delay)
		return []byte(`"` + args[0] + `"`), nil
	})

	processor := NewBatchProcessor(invoker, 3, 0, 0, nil)
	results := processor.Process(context.Background(), []Invocation{
		{Contract: "SourceContract", Function: "querySource", Args: []string{"a"}},
		{Contract: "SourceContract", Function: "querySource", Args: []string{"b"}},
		{Contract: "SourceContract", Function: "querySource", Args: []string{"c"}},
	})

	for i, want := range []string{`"a"`, `"b"`, `"c"`} {
		if got := string(results[i].Payload); got != want {
			t.Errorf("result %d: got %s, want %s", i, got, want)
		}
	}
}

type invokerFunc func(ctx context.Context, contract, function string, args []string) ([]byte, error)

func (f invokerFunc) Invoke(ctx context.Context, contract, function string, args []string) ([]byte, error) {
	return f(ctx, contract, function, args)
}
