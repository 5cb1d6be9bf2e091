package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"seamless/internal/config"
	"seamless/internal/frame"
	"seamless/internal/history"
	"seamless/internal/imagecodec"
	"seamless/internal/logging"
	"seamless/internal/loopsearch"
	"seamless/internal/progress"
	"seamless/internal/services"
)

// Request identifies the frames to process. Output overrides the configured
// encode.output when set.
type Request struct {
	InputDir string
	Output   string
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	InputDir   string
	FrameCount int
	Best       loopsearch.Candidate
	OutputPath string
	Format     string
	Elapsed    time.Duration
}

// Runner executes runs against one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	progress *progress.Factory
	history  *history.Store
	decoder  frame.Decoder
	now      func() time.Time
}

// RunnerOption configures optional Runner behavior.
type RunnerOption func(*Runner)

// WithProgress routes step progress through factory.
func WithProgress(factory *progress.Factory) RunnerOption {
	return func(r *Runner) {
		if factory != nil {
			r.progress = factory
		}
	}
}

// WithHistory records every run in store.
func WithHistory(store *history.Store) RunnerOption {
	return func(r *Runner) { r.history = store }
}

// WithDecoder replaces the frame decoder.
func WithDecoder(dec frame.Decoder) RunnerOption {
	return func(r *Runner) {
		if dec != nil {
			r.decoder = dec
		}
	}
}

// NewRunner constructs a Runner. Progress is discarded unless WithProgress is
// supplied.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "workflow"),
		decoder: imagecodec.Decoder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.progress == nil {
		r.progress = progress.NewFactory(nil, logger)
	}
	return r
}

// Run executes the pipeline for req. The run is recorded in history whether
// it succeeds or fails; history errors are only logged.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	started := r.now()
	result := Result{
		RunID:      uuid.NewString(),
		InputDir:   strings.TrimSpace(req.InputDir),
		OutputPath: strings.TrimSpace(req.Output),
		Format:     r.cfg.Encode.Format,
	}
	if result.OutputPath == "" {
		result.OutputPath = r.cfg.Encode.Output
	}
	if req.Output != "" {
		result.Format = config.InferFormat(result.OutputPath)
	}

	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String("input_dir", result.InputDir),
		logging.String("output", result.OutputPath),
		logging.String("format", result.Format),
		logging.Float64("duration_importance", r.cfg.Search.DurationImportance),
	)

	err := r.execute(ctx, logger, &result)
	result.Elapsed = r.now().Sub(started)
	r.record(ctx, logger, result, started, err)

	if err != nil {
		logger.Error("run failed",
			logging.Error(err),
			logging.Duration("elapsed", result.Elapsed),
			logging.String(logging.FieldEventType, "run_failed"),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return result, err
	}
	logger.Info("run finished",
		logging.Int("start_index", result.Best.Start),
		logging.Int("end_index", result.Best.End),
		logging.Float64("similarity", result.Best.Similarity),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, result *Result) error {
	if err := r.preflight(ctx, logger, result); err != nil {
		return err
	}
	cat, err := r.index(ctx, logger, result)
	if err != nil {
		return err
	}
	best, err := r.analyze(ctx, logger, cat)
	if err != nil {
		return err
	}
	result.Best = best
	return r.encode(ctx, logger, cat, result)
}

// classify tags err with marker unless the run was cancelled.
func classify(ctx context.Context, marker error, stage, op, msg string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrCancelled, stage, op, "run cancelled", err)
	}
	return services.Wrap(marker, stage, op, msg, err)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrCancelled):
		return "the run was interrupted; start it again to produce an output"
	case errors.Is(err, services.ErrInput):
		return "check the input directory, extension, and output path"
	case errors.Is(err, services.ErrDecode):
		return "remove or re-export the corrupt frame"
	case errors.Is(err, services.ErrEncode):
		return "check free disk space and the encode settings"
	default:
		return "rerun with --log-level debug for details"
	}
}
