// Package engine drives the event loop and worker pool (spec.md §4.5.4,
// §5), grounded on allpix-squared's ThreadPool/ModuleManager::run but
// built on golang.org/x/sync/errgroup instead of a bespoke SafeQueue:
// errgroup.Group already captures the first error from a set of concurrent
// goroutines and cancels the shared context, which is exactly the "first
// exception wins, remaining workers drain" contract spec.md describes.
package engine

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nmxmxh/pixelsim/internal/manager"
	"github.com/nmxmxh/pixelsim/internal/module"
	"github.com/nmxmxh/pixelsim/internal/telemetry"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Summary is the end-of-run report: modules executed, events completed,
// and whether the run ended on a voluntary EndOfRun request rather than
// exhausting the configured event count.
type Summary struct {
	RunID           string
	EventsCompleted int
	Modules         []string
	Workers         int
	EndOfRun        bool
}

// Engine owns the event loop: it derives the two seed streams, prepares
// the output directory layout, runs the module lifecycle through manager,
// and schedules event tasks onto a bounded worker pool.
type Engine struct {
	manager *manager.Manager
	metrics *telemetry.Metrics
	logger  *telemetry.Logger
	workers int

	coreStream   *Stream
	moduleStream *Stream
}

// New constructs an Engine. workers <= 0 means "detected hardware
// parallelism" (spec.md §4.5.4).
func New(m *manager.Manager, metrics *telemetry.Metrics, logger *telemetry.Logger, workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if metrics != nil {
		m.SetMetrics(metrics)
	}
	return &Engine{manager: m, metrics: metrics, logger: logger, workers: workers}
}

// CoreStream returns the core seed stream (geometry sampling and other
// core-owned randomness), available to callers after Run has started it.
func (e *Engine) CoreStream() *Stream { return e.coreStream }

// Run executes the full lifecycle: prepare output directories, derive
// seeds, initialize every module, run the event loop, finalize.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	if e.logger != nil {
		e.logger.Info("run starting", "run_id", runID)
	}

	numEvents, err := e.manager.NumberOfEvents()
	if err != nil {
		return nil, err
	}

	if err := prepareOutputDirectories(e.manager.OutputRoot(), e.manager.PurgeOutputDirectory(), e.manager.OutputDirectories()); err != nil {
		return nil, err
	}

	coreSeed, err := deriveSeed(e.manager.Global(), "random_seed_core")
	if err != nil {
		return nil, err
	}
	moduleSeed, err := deriveSeed(e.manager.Global(), "random_seed")
	if err != nil {
		return nil, err
	}
	e.coreStream = NewStream(coreSeed)
	e.moduleStream = NewStream(moduleSeed)

	if err := e.manager.Initialize(); err != nil {
		return nil, err
	}

	workers := e.workers
	if !e.manager.ParallelSafe() {
		workers = 1
	}
	if e.metrics != nil {
		e.metrics.ActiveWorkers.Set(float64(workers))
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var completed atomic.Int64
	var endOfRun bool

eventsLoop:
	for event := 1; event <= int(numEvents); event++ {
		select {
		case <-groupCtx.Done():
			break eventsLoop
		default:
		}

		// The seed is drawn here, serially, before the event task is
		// handed to any worker: determinism must not depend on which
		// worker happens to pick up which event (spec.md §4.5.5).
		seed := e.moduleStream.Draw()
		ev := event

		group.Go(func() error {
			// A task that was queued behind a failing or ending event does
			// not start once the shared context is cancelled.
			if groupCtx.Err() != nil {
				return nil
			}
			runErr := e.manager.RunEvent(ev, seed)
			if runErr != nil && !module.IsEndOfRun(runErr) {
				return runErr
			}
			completed.Add(1)
			if e.metrics != nil {
				e.metrics.EventsCompleted.Inc()
			}
			return runErr
		})
	}

	runErr := group.Wait()
	if runErr != nil && module.IsEndOfRun(runErr) {
		endOfRun = true
		runErr = nil
	}

	finalizeErr := e.manager.Finalize()
	if runErr != nil {
		return nil, multierr.Append(runErr, finalizeErr)
	}
	if finalizeErr != nil {
		return nil, finalizeErr
	}

	return &Summary{
		RunID:           runID,
		EventsCompleted: int(completed.Load()),
		Modules:         e.manager.ModuleNames(),
		Workers:         workers,
		EndOfRun:        endOfRun,
	}, nil
}
