// Package executor runs a finalized graph to completion: a worker pool
// pulls ready nodes off a channel, evaluates each exactly once per
// generation (diamond-shared dependencies are never recomputed), and
// propagates failures downstream as skips rather than re-running
// dependents on a poisoned input.
//
// Grounded on the teacher's internal/dag executor.go/node_runner.go: the
// same atomic dependency-counter/worker-pool/skipOnce shape, generalized
// from a fixed resource/step vocabulary to the spec's Coarse/Fine node
// kinds, and from HCL-decoded arguments to resolved handle arguments.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/ctxlog"
	"github.com/vk/sitegraph/graphanalysis"
	"github.com/vk/sitegraph/graphnode"
	"github.com/vk/sitegraph/nodeid"
	"github.com/vk/sitegraph/resultstore"
	"github.com/vk/sitegraph/topology"
	"github.com/vk/sitegraph/tracker"
)

// Executor runs one generation of a finalized graph. G is the type of
// the build-wide global context value every task body receives.
type Executor[G any] struct {
	topo     *topology.Store
	analysis *graphanalysis.Analysis
	results  resultstore.Store
	cas      *cas.Store
	global   G
	workers  int

	// ContentRoot is the directory loader nodes' glob patterns are
	// resolved against. Required whenever the graph contains at least
	// one loader node.
	ContentRoot string

	// Tracker, if non-nil, records per-edge access patterns for the next
	// incremental invalidation pass (spec §4.H). A one-shot build that
	// never re-runs can leave this nil.
	Tracker *tracker.Engine
}

// New constructs an Executor. workers is clamped to at least 1.
func New[G any](topo *topology.Store, analysis *graphanalysis.Analysis, results resultstore.Store, store *cas.Store, global G, workers int) *Executor[G] {
	if workers < 1 {
		workers = 1
	}
	return &Executor[G]{
		topo:     topo,
		analysis: analysis,
		results:  results,
		cas:      store,
		global:   global,
		workers:  workers,
	}
}

// runState is the bookkeeping local to a single Run call. Dependency
// counters and skip-once guards must not live on graphnode.Node itself,
// since the topology (and its Nodes) is immutable and reused across
// generations in watch mode — only resultstore's contents change.
type runState struct {
	depCount []atomic.Int32
	skipOnce []sync.Once

	mu          sync.Mutex
	wg          sync.WaitGroup
	firstErr    error
	failedNames []string
}

// Run executes every node in the graph to completion, respecting
// cancellation from ctx. On the first task failure it cancels the run,
// lets in-flight work drain, marks every transitive dependent as skipped
// rather than scheduling it, and returns an error wrapping the root
// cause. Partial Fine results from an aborted run are left in resultstore
// as-is; callers that require a fully clean generation should discard
// resultstore's contents on error.
func (e *Executor[G]) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	nodes := e.topo.All()
	n := e.topo.Len()

	rs := &runState{
		depCount: make([]atomic.Int32, n),
		skipOnce: make([]sync.Once, n),
	}

	readyChan := make(chan nodeid.ID, n)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var roots int
	for _, node := range nodes {
		node.SetState(graphnode.Pending)
		rs.depCount[node.ID()].Store(int32(len(node.Inputs)))
		if len(node.Inputs) == 0 {
			readyChan <- node.ID()
			roots++
		}
	}
	logger.Debug("executor: starting run", "nodes", n, "roots", roots, "workers", e.workers)

	rs.wg.Add(n)
	for i := 0; i < e.workers; i++ {
		go e.worker(runCtx, readyChan, cancel, rs, i)
	}

	rs.wg.Wait()
	close(readyChan)

	if rs.firstErr != nil {
		return fmt.Errorf("sitegraph: execution failed for %s: %w", strings.Join(rs.failedNames, ", "), rs.firstErr)
	}
	return nil
}

func (e *Executor[G]) worker(ctx context.Context, readyChan chan nodeid.ID, cancel context.CancelFunc, rs *runState, workerID int) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)

	for id := range readyChan {
		node := e.topo.MustGet(id)

		if ctx.Err() != nil {
			e.skipOne(node, rs, ctx.Err())
			e.skipDependents(ctx, node, rs)
			continue
		}

		node.SetState(graphnode.Running)
		err := e.evaluate(ctx, node)
		if err != nil {
			logger.Error("executor: node failed", "node", node.Name, "error", err)
			node.SetState(graphnode.Failed)

			rs.mu.Lock()
			if rs.firstErr == nil {
				rs.firstErr = err
				rs.failedNames = append(rs.failedNames, node.Name)
			}
			rs.mu.Unlock()

			cancel()
			e.skipDependents(ctx, node, rs)
			rs.wg.Done()
			continue
		}

		node.SetState(graphnode.Done)
		for _, consumerID := range e.analysis.Consumers[id] {
			if rs.depCount[consumerID].Add(-1) == 0 {
				readyChan <- consumerID
			}
		}
		rs.wg.Done()
	}
}

// skipOne marks a single node failed without touching its dependents
// (used for nodes pulled off readyChan after cancellation already
// reached them). Such a node need not depend on the node whose failure
// triggered the cancellation, so the worker follows it with
// skipDependents; the skip-once guards make that a no-op for dependents
// that were already marked.
func (e *Executor[G]) skipOne(node *graphnode.Node, rs *runState, cause error) {
	rs.skipOnce[node.ID()].Do(func() {
		node.SetState(graphnode.Failed)
		rs.wg.Done()
	})
	_ = cause
}

// skipDependents recursively marks every transitive consumer of node as
// Failed, without evaluating it, and releases its WaitGroup slot.
func (e *Executor[G]) skipDependents(ctx context.Context, node *graphnode.Node, rs *runState) {
	logger := ctxlog.FromContext(ctx)
	for _, consumerID := range e.analysis.Consumers[node.ID()] {
		consumer := e.topo.MustGet(consumerID)
		rs.skipOnce[consumerID].Do(func() {
			logger.Warn("executor: skipping dependent", "node", consumer.Name, "upstream", node.Name)
			consumer.SetState(graphnode.Failed)
			rs.wg.Done()
			e.skipDependents(ctx, consumer, rs)
		})
	}
}

var errUnreachable = errors.New("sitegraph: unreachable node kind")
