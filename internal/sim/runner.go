// Package sim runs batches of independent trials in parallel and collects
// their records in trial order.
package sim

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/magefree/goldfish/internal/game"
	"github.com/magefree/goldfish/internal/metrics"
)

// TrialRunner runs one trial. *game.Engine implements it.
type TrialRunner interface {
	RunTrial(trial int, seed uint64) metrics.TrialRecord
}

// Result is the outcome of a batch. Records are in trial order; a
// cancelled batch only holds the trials that finished.
type Result struct {
	Batch   BatchSnapshot         `json:"batch"`
	Summary metrics.Summary       `json:"summary"`
	Records []metrics.TrialRecord `json:"records,omitempty"`
}

// Runner dispatches trials to a bounded pool of goroutines.
type Runner struct {
	logger  *zap.Logger
	trials  TrialRunner
	workers int
}

// NewRunner creates a runner. workers <= 0 uses GOMAXPROCS.
func NewRunner(logger *zap.Logger, trials TrialRunner, workers int) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{logger: logger, trials: trials, workers: workers}
}

// Workers returns the pool size.
func (r *Runner) Workers() int {
	return r.workers
}

// Run executes every trial of the batch. Trial i is seeded from the batch
// seed and i alone, so results do not depend on the number of workers or
// on scheduling. Cancelling ctx stops dispatching new trials; trials
// already running finish, and Run returns their records with ctx's error.
func (r *Runner) Run(ctx context.Context, batch *Batch) (*Result, error) {
	n := batch.Trials
	records := make([]metrics.TrialRecord, n)
	done := make([]bool, n)
	progressEvery := max(1, n/10)

	batch.SetState(BatchStateRunning)
	r.logger.Info("batch started",
		zap.String("batch_id", batch.ID),
		zap.String("deck", batch.Deck),
		zap.Int("trials", n),
		zap.Uint64("seed", batch.Seed),
		zap.Int("workers", r.workers),
	)

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec := r.trials.RunTrial(i, game.TrialSeed(batch.Seed, i))
			records[i] = rec
			done[i] = true
			if completed := batch.record(rec); completed%progressEvery == 0 {
				r.logger.Info("batch progress",
					zap.String("batch_id", batch.ID),
					zap.Int("completed", completed),
					zap.Int("trials", n),
				)
			}
			return nil
		})
	}
	// Trials never fail; aborts are recorded in their records.
	_ = g.Wait()

	finished := records
	if err := ctx.Err(); err != nil {
		finished = make([]metrics.TrialRecord, 0, n)
		for i, ok := range done {
			if ok {
				finished = append(finished, records[i])
			}
		}
		batch.SetState(BatchStateCancelled)
		snap := batch.Snapshot()
		r.logger.Warn("batch cancelled",
			zap.String("batch_id", batch.ID),
			zap.Int("completed", snap.Completed),
			zap.Int("trials", n),
		)
		return &Result{Batch: snap, Summary: metrics.Summarize(finished), Records: finished}, err
	}

	batch.SetState(BatchStateFinished)
	summary := metrics.Summarize(finished)
	snap := batch.Snapshot()
	r.logger.Info("batch finished",
		zap.String("batch_id", batch.ID),
		zap.Int("trials", n),
		zap.Float64("win_rate", summary.WinRate),
		zap.Int("aborted", snap.Aborted),
		zap.Int("dropped_firings", summary.Diagnostics.DroppedFirings),
	)
	return &Result{Batch: snap, Summary: summary, Records: finished}, nil
}
