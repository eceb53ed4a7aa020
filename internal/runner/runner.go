package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vneplab/evalgrid/internal/archive"
	"github.com/vneplab/evalgrid/internal/ctxlog"
	"github.com/vneplab/evalgrid/internal/model"
)

// Options bound the batch execution.
type Options struct {
	Concurrency int
	TaskTimeout time.Duration
}

// Outcome is the per-status task count of one batch run.
type Outcome struct {
	Succeeded int
	TimedOut  int
	Errored   int
	Skipped   int
}

// Total is the number of tasks accounted for, including skipped ones.
func (o Outcome) Total() int {
	return o.Succeeded + o.TimedOut + o.Errored + o.Skipped
}

// Runner schedules tasks onto a bounded worker pool and archives one record
// per task. The archive is the only shared mutable state; workers never
// communicate with each other.
type Runner struct {
	archive  *archive.Archive
	adapters AdapterResolver
	opts     Options
}

// task is one (scenario, execution config) pair.
type task struct {
	scenario model.ScenarioInstance
	cfg      model.ExecutionConfig
}

func (t task) key() model.TaskKey {
	return model.TaskKey{
		ScenarioID:  t.scenario.ScenarioID,
		AlgorithmID: t.cfg.AlgorithmID,
		ConfigIndex: t.cfg.ConfigIndex,
	}
}

// New creates a Runner. Concurrency must be at least 1 and TaskTimeout
// positive.
func New(arc *archive.Archive, adapters AdapterResolver, opts Options) (*Runner, error) {
	if opts.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", opts.Concurrency)
	}
	if opts.TaskTimeout <= 0 {
		return nil, fmt.Errorf("task timeout must be positive, got %s", opts.TaskTimeout)
	}
	return &Runner{archive: arc, adapters: adapters, opts: opts}, nil
}

// Run executes every (scenario, config) pair not already present in the
// archive and returns the per-status counts. Task order carries no meaning;
// results are keyed by identity. Run returns an error only for systemic
// failures (unknown algorithm, archive write failure, canceled context) —
// individual task failures are recorded and counted, never propagated.
func (r *Runner) Run(ctx context.Context, scenarios []model.ScenarioInstance, configs []model.ExecutionConfig) (Outcome, error) {
	logger := ctxlog.FromContext(ctx)

	// Resolve adapters up front: a missing adapter is a wiring bug, not a
	// per-task failure.
	resolved := make(map[string]Adapter, len(configs))
	for _, cfg := range configs {
		if _, ok := resolved[cfg.AlgorithmID]; ok {
			continue
		}
		adapter, ok := r.adapters.Lookup(cfg.AlgorithmID)
		if !ok {
			return Outcome{}, fmt.Errorf("no adapter registered for algorithm %q", cfg.AlgorithmID)
		}
		resolved[cfg.AlgorithmID] = adapter
	}

	tasks := make([]task, 0, len(scenarios)*len(configs))
	for _, scen := range scenarios {
		for _, cfg := range configs {
			tasks = append(tasks, task{scenario: scen, cfg: cfg})
		}
	}
	logger.Info("🚀 Starting batch execution.",
		"tasks", len(tasks),
		"workers", r.opts.Concurrency,
		"task_timeout", r.opts.TaskTimeout,
		"run_id", r.archive.RunID(),
	)

	var (
		succeeded, timedOut, errored, skipped atomic.Int64
		firstErr                              atomic.Pointer[error]
	)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// fail records a systemic failure and stops the batch. The first error
	// wins; later ones are symptoms of the cancellation.
	fail := func(err error) {
		if firstErr.CompareAndSwap(nil, &err) {
			cancel()
		}
	}

	taskChan := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < r.opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			workerLogger := logger.With("workerID", workerID)
			for t := range taskChan {
				if runCtx.Err() != nil {
					return
				}

				key := t.key()
				present, err := r.archive.Has(runCtx, key)
				if err != nil {
					fail(err)
					return
				}
				if present {
					workerLogger.Debug("Task already archived, skipping.", "task", key)
					skipped.Add(1)
					continue
				}

				rec, ok := r.execute(runCtx, resolved[t.cfg.AlgorithmID], t)
				if !ok {
					// Batch canceled mid-task; nothing recorded, the task
					// re-runs on resume.
					return
				}
				if err := r.archive.Append(runCtx, rec); err != nil {
					fail(err)
					return
				}

				switch rec.Status {
				case model.StatusSuccess:
					succeeded.Add(1)
				case model.StatusTimeout:
					workerLogger.Warn("Task timed out.", "task", key, "timeout", r.opts.TaskTimeout)
					timedOut.Add(1)
				case model.StatusError:
					workerLogger.Warn("Task failed.", "task", key, "diagnostic", rec.Diagnostic)
					errored.Add(1)
				}
			}
		}(i)
	}

feed:
	for _, t := range tasks {
		select {
		case taskChan <- t:
		case <-runCtx.Done():
			break feed
		}
	}
	close(taskChan)
	wg.Wait()

	outcome := Outcome{
		Succeeded: int(succeeded.Load()),
		TimedOut:  int(timedOut.Load()),
		Errored:   int(errored.Load()),
		Skipped:   int(skipped.Load()),
	}

	if errPtr := firstErr.Load(); errPtr != nil {
		return outcome, fmt.Errorf("batch aborted: %w", *errPtr)
	}
	if err := ctx.Err(); err != nil {
		return outcome, fmt.Errorf("batch canceled: %w", err)
	}

	logger.Info("🏁 Batch execution finished.",
		"succeeded", outcome.Succeeded,
		"timed_out", outcome.TimedOut,
		"errored", outcome.Errored,
		"skipped", outcome.Skipped,
	)
	return outcome, nil
}

// solveResult is the outcome of one adapter call.
type solveResult struct {
	payload []byte
	err     error
}

// execute runs one task under the per-task timeout and builds its record.
// The second return value is false when the batch context was canceled
// before an outcome was reached; no record must be written in that case.
func (r *Runner) execute(ctx context.Context, adapter Adapter, t task) (model.ResultRecord, bool) {
	solveCtx, cancel := context.WithTimeout(ctx, r.opts.TaskTimeout)
	defer cancel()

	// Buffered so an abandoned call can still deliver its late result
	// without leaking the goroutine; the result is simply never read.
	resultChan := make(chan solveResult, 1)
	start := time.Now()
	go func() {
		defer func() {
			if p := recover(); p != nil {
				resultChan <- solveResult{err: fmt.Errorf("adapter panic: %v", p)}
			}
		}()
		payload, err := adapter.Solve(solveCtx, t.scenario, t.cfg)
		resultChan <- solveResult{payload: payload, err: err}
	}()

	rec := model.ResultRecord{TaskKey: t.key()}
	select {
	case res := <-resultChan:
		// An adapter returning right at the deadline races the Done case
		// below; classify by the context, not by which case won.
		if ctx.Err() != nil {
			return model.ResultRecord{}, false
		}
		if solveCtx.Err() != nil && errors.Is(res.err, context.DeadlineExceeded) {
			return r.timeoutRecord(t), true
		}
		rec.RuntimeSeconds = time.Since(start).Seconds()
		if res.err != nil {
			rec.Status = model.StatusError
			rec.Diagnostic = res.err.Error()
			return rec, true
		}
		rec.Status = model.StatusSuccess
		rec.Payload = res.payload
		return rec, true
	case <-solveCtx.Done():
		if ctx.Err() != nil {
			// Parent canceled, not a task timeout.
			return model.ResultRecord{}, false
		}
		return r.timeoutRecord(t), true
	}
}

func (r *Runner) timeoutRecord(t task) model.ResultRecord {
	return model.ResultRecord{
		TaskKey:        t.key(),
		Status:         model.StatusTimeout,
		Diagnostic:     fmt.Sprintf("adapter exceeded task timeout of %s", r.opts.TaskTimeout),
		RuntimeSeconds: r.opts.TaskTimeout.Seconds(),
	}
}
