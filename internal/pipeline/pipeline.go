package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/wikigraph/internal/model"
)

// Step is one stage of a crawl run. Steps execute in sequence, each
// receiving the accumulated result from previous steps.
//
// Design decision: We use an interface rather than function types
// because steps carry configuration state and a Name() for logging.
type Step interface {
	// Do executes the step, mutating result as it goes. Returning an
	// error marks the step failed; whether the run continues depends
	// on the pipeline's continue-on-error setting.
	Do(ctx context.Context, result *model.CrawlResult) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes an ordered list of steps over a shared result.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to keep executing steps
// after one fails. Failed steps are logged; the first error is still
// returned after the run.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a Pipeline with the given steps.
func New(steps []Step, opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:  steps,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes all steps in order. The context is checked before each
// step so a cancelled run stops between stages, never mid-stage.
func (p *Pipeline) Run(ctx context.Context, result *model.CrawlResult) error {
	var firstErr error

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		p.logger.Debug("pipeline step starting", "step", step.Name())

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("pipeline step failed",
				"step", step.Name(),
				"error", err,
				"elapsed", time.Since(start),
			)
			if !p.continueOnError {
				return fmt.Errorf("step %s failed: %w", step.Name(), err)
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("step %s failed: %w", step.Name(), err)
			}
			continue
		}

		p.logger.Debug("pipeline step finished",
			"step", step.Name(),
			"elapsed", time.Since(start),
		)
	}

	return firstErr
}
