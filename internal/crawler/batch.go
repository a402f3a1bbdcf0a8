package crawler

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/graphcrawl/internal/model"
)

// BatchRunner executes independent crawls for multiple origins concurrently.
// It uses errgroup to manage goroutines and respect a concurrency limit.
//
// Concurrency here is safe without locks because every Execute call owns its
// own visited set, safety metrics, and result buffers; the runner only fans
// out and collects.
type BatchRunner struct {
	// executor runs each crawl. Executors are immutable, so one instance
	// serves all goroutines.
	executor *Executor

	// concurrency is the maximum number of crawls running at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithConcurrency sets the maximum number of concurrent crawls.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// NewBatchRunner creates a BatchRunner around the given executor.
func NewBatchRunner(executor *Executor, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		executor:    executor,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run crawls every origin and returns one result per origin, in input order.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled worker
// pool because it handles the concurrency bound and context plumbing
// correctly with far less code. Failed and skipped crawls still yield a
// result; the error return only reports batch-level cancellation.
func (b *BatchRunner) Run(ctx context.Context, origins []string) ([]*model.CrawlResult, error) {
	b.logger.Info("starting batch crawl",
		"origins", len(origins),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Results are written by index, one goroutine per slot, so no lock is
	// needed around the slice.
	results := make([]*model.CrawlResult, len(origins))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, origin := range origins {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := b.executor.Execute(ctx, origin)
			if result == nil {
				// Pre-crawl caller bug (empty origin). Synthesize a failed
				// result so the batch output stays index-aligned.
				result = model.NewCrawlResult(b.executor.cfg.Scope, origin)
				result.Status = model.StatusFailed
				result.Errors = append(result.Errors, err.Error())
			}
			results[i] = result

			if result.Status != model.StatusCompleted {
				b.logger.Warn("crawl did not complete",
					"origin", origin,
					"status", result.Status.String(),
				)
			}

			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch crawl complete",
		"origins", len(origins),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
