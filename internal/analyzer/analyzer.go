package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/buildgrid/internal/analysis"
	"github.com/vk/buildgrid/internal/config"
	"github.com/vk/buildgrid/internal/ctxlog"
	"github.com/vk/buildgrid/internal/graph"
	"github.com/vk/buildgrid/internal/label"
)

// task tracks the in-flight analysis state of one target.
type task struct {
	target *config.Target

	// depCount is an atomic counter of unanalyzed dependencies; the task
	// becomes ready when it reaches zero.
	depCount atomic.Int32
	// skipped is set when a transitive dependency failed.
	skipped atomic.Bool
	// finishOnce guards the completion accounting so a task is counted
	// done exactly once, whether it was analyzed or skipped.
	finishOnce sync.Once
}

func (t *task) finish(wg *sync.WaitGroup) {
	t.finishOnce.Do(wg.Done)
}

// Analyzer runs the concurrent analysis of one graph.
type Analyzer struct {
	graph   *graph.Graph
	workers int

	store *analysis.Store
	tasks map[label.Label]*task
	wg    sync.WaitGroup

	// errMu protects errs, which aggregates failures across workers.
	errMu sync.Mutex
	errs  []error
}

// New creates an analyzer for the given graph with the given worker count.
func New(g *graph.Graph, workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{
		graph:   g,
		workers: workers,
		store:   analysis.NewStore(),
		tasks:   make(map[label.Label]*task),
	}
}

// Run analyzes every target in the graph and returns the resulting store.
// On failure it returns the store of what did analyze alongside the joined
// errors of every failed or skipped subgraph root.
func (a *Analyzer) Run(ctx context.Context) (*analysis.Store, error) {
	logger := ctxlog.FromContext(ctx)
	labels := a.graph.Labels()
	logger.Debug("Analysis starting.", "target_count", len(labels), "workers", a.workers)

	ready := make(chan *task, len(labels))
	for _, l := range labels {
		t, ok := a.graph.Target(l)
		if !ok {
			return nil, fmt.Errorf("graph has no target for %s", l)
		}
		deps, err := a.graph.Dependencies(l)
		if err != nil {
			return nil, err
		}
		tk := &task{target: t}
		// Count through the graph, not the raw deps list: the graph
		// deduplicates edges, and dependents only ever decrement once
		// per distinct dependency.
		tk.depCount.Store(int32(len(deps)))
		a.tasks[l] = tk
	}
	a.wg.Add(len(labels))
	for _, l := range labels {
		if tk := a.tasks[l]; tk.depCount.Load() == 0 {
			ready <- tk
		}
	}

	var workerWg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		workerWg.Add(1)
		go func(workerID int) {
			defer workerWg.Done()
			a.worker(ctx, ready, workerID)
		}(i)
	}

	a.wg.Wait()
	close(ready)
	workerWg.Wait()

	logger.Debug("Analysis finished.", "analyzed_count", a.store.Len())
	return a.store, errors.Join(a.errs...)
}

// worker is the core processing loop for a single concurrent worker.
func (a *Analyzer) worker(ctx context.Context, ready chan *task, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for tk := range ready {
		workerLogger := logger.With("workerID", workerID, "label", tk.target.Label.String())

		if tk.skipped.Load() {
			// A dependency failed between enqueue and pickup.
			continue
		}
		if ctx.Err() != nil {
			a.fail(tk, ctx.Err())
			continue
		}

		workerLogger.Debug("Worker picked up target for analysis.")
		value, err := a.analyzeTarget(tk.target)
		if err != nil {
			workerLogger.Error("Target analysis failed.", "error", err)
			a.fail(tk, err)
			continue
		}

		a.store.Put(value)
		workerLogger.Debug("Target analysis succeeded.", "num_actions", value.NumActions())

		for _, dep := range a.dependents(tk) {
			if dep.depCount.Add(-1) == 0 && !dep.skipped.Load() {
				ready <- dep
			}
		}
		tk.finish(&a.wg)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// fail records the error for a task and skips its transitive dependents.
func (a *Analyzer) fail(tk *task, err error) {
	a.errMu.Lock()
	a.errs = append(a.errs, fmt.Errorf("analyzing %s: %w", tk.target.Label, err))
	a.errMu.Unlock()

	a.skipDependents(tk)
	tk.finish(&a.wg)
}

// skipDependents marks every transitive dependent of the failed task as
// skipped, exactly once each.
func (a *Analyzer) skipDependents(tk *task) {
	for _, dep := range a.dependents(tk) {
		if dep.skipped.CompareAndSwap(false, true) {
			dep.finish(&a.wg)
			a.skipDependents(dep)
		}
	}
}

func (a *Analyzer) dependents(tk *task) []*task {
	labels, err := a.graph.Dependents(tk.target.Label)
	if err != nil {
		return nil
	}
	out := make([]*task, 0, len(labels))
	for _, l := range labels {
		if dep, ok := a.tasks[l]; ok {
			out = append(out, dep)
		}
	}
	return out
}
