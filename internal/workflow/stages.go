package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"seamless/internal/catalog"
	"seamless/internal/encoding"
	"seamless/internal/fileutil"
	"seamless/internal/loader"
	"seamless/internal/logging"
	"seamless/internal/loopsearch"
	"seamless/internal/preflight"
	"seamless/internal/progress"
	"seamless/internal/services"
	"seamless/internal/similarity"
)

const (
	stagePreflight = "preflight"
	stageIndex     = "index"
	stageLoad      = "load"
	stageSearch    = "search"
	stageEncode    = "encode"
)

// stalePartialAge is how old a leftover .partial output must be before a new
// run deletes it.
const stalePartialAge = 24 * time.Hour

func (r *Runner) preflight(ctx context.Context, logger *slog.Logger, result *Result) error {
	if dir := filepath.Dir(result.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return classify(ctx, services.ErrInput, stagePreflight, "create output directory", dir, err)
		}
	}
	fileutil.CleanStalePartials(filepath.Dir(result.OutputPath), stalePartialAge, logger)

	results := preflight.RunAll(result.InputDir, r.cfg.Search.Extension, result.OutputPath)
	for _, check := range results {
		if check.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported check and rerun"),
		)
	}
	return preflight.FirstFailure(results)
}

// index is step 1: list and sort the frame files.
func (r *Runner) index(ctx context.Context, logger *slog.Logger, result *Result) (*catalog.Catalog, error) {
	reporter := r.progress.Start(progress.Step{Number: 1, Name: progress.StepIndexing, Total: 1})
	cat, err := catalog.Build(result.InputDir, r.cfg.Search.Extension)
	if err != nil {
		return nil, classify(ctx, services.ErrInput, stageIndex, "build catalog", result.InputDir, err)
	}
	reporter.Increase()
	reporter.Done(fmt.Sprintf("indexed %d files", cat.Len()))
	result.FrameCount = cat.Len()
	logger.Info("frames indexed",
		logging.Int("frame_count", cat.Len()),
		logging.String("extension", cat.Extension()),
	)
	if cat.Len() < 2 {
		return nil, services.Wrap(services.ErrInput, stageIndex, "build catalog",
			fmt.Sprintf("%s: need at least 2 frames", result.InputDir), loopsearch.ErrNoCandidates)
	}
	return cat, nil
}

// analyze runs steps 2 and 3 together: the loader fills frame handles while
// the search blocks on each handle it reaches before that handle is ready.
func (r *Runner) analyze(ctx context.Context, logger *slog.Logger, cat *catalog.Catalog) (loopsearch.Candidate, error) {
	n := cat.Len()
	reporters := r.progress.Concurrent(
		progress.Step{Number: 2, Name: progress.StepLoading, Total: n},
		progress.Step{Number: 3, Name: progress.StepMatching, Total: n - 1},
	)
	loadReporter, searchReporter := reporters[0], reporters[1]

	ld := loader.New(loader.Options{
		Workers:  r.cfg.Search.LoadWorkers,
		Decoder:  r.decoder,
		Progress: func(int, int) { loadReporter.Increase() },
		Logger:   logger,
	})

	var result loopsearch.Result
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		stageCtx := services.WithStage(gctx, stageLoad)
		if err := ld.Load(stageCtx, cat); err != nil {
			return classify(gctx, services.ErrDecode, stageLoad, "decode frames", cat.Dir(), err)
		}
		loadReporter.Done(fmt.Sprintf("loaded %d files", n))
		return nil
	})
	group.Go(func() error {
		stageCtx := services.WithStage(gctx, stageSearch)
		res, err := loopsearch.Search(stageCtx, cat, loopsearch.Options{
			DurationImportance: r.cfg.Search.DurationImportance,
			Scorer:             similarity.NormalizedEuclidean,
			Workers:            r.cfg.Search.Workers,
			Progress:           func(int, int) { searchReporter.Increase() },
			Logger:             logging.WithContext(stageCtx, logger),
		})
		if err != nil {
			return classify(gctx, services.ErrInput, stageSearch, "score frames", cat.Dir(), err)
		}
		searchReporter.Done(fmt.Sprintf("compared %d start frames", n-1))
		result = res
		return nil
	})
	if err := group.Wait(); err != nil {
		// A loader failure cancels gctx, so the search error that follows is
		// a cancellation; Wait reports whichever task failed first.
		return loopsearch.Candidate{}, err
	}

	best := result.Best
	if !best.Feasible {
		return best, services.Wrap(services.ErrInput, stageSearch, "select loop",
			fmt.Sprintf("%s: no two frames share the same dimensions", cat.Dir()), nil)
	}
	logger.Info("loop selected",
		logging.Int("start_index", best.Start),
		logging.Int("end_index", best.End),
		logging.Int("frames", best.Frames()),
		logging.Float64("similarity", best.Similarity),
		logging.Float64("composite", best.Composite),
		logging.String("start_frame", filepath.Base(cat.Path(best.Start))),
		logging.String("end_frame", filepath.Base(cat.Path(best.End))),
	)
	return best, nil
}

// encode runs steps 4 and 5. The artifact is staged under a .partial name and
// the final path is locked for the duration of the write.
func (r *Runner) encode(ctx context.Context, logger *slog.Logger, cat *catalog.Catalog, result *Result) error {
	lock, err := lockOutput(result.OutputPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.release(); err != nil {
			logging.WarnWithContext(logger, "output lock release failed", "output_lock_release_failed",
				"remove the stale .lock file next to the output",
				logging.String("lock", lock.path),
				logging.Error(err),
			)
		}
	}()

	out, err := fileutil.CreatePartial(result.OutputPath, 0o644)
	if err != nil {
		return services.Wrap(services.ErrEncode, stageEncode, "create output", result.OutputPath, err)
	}

	settings := encoding.SettingsFromConfig(r.cfg.Encode)
	settings.Format = result.Format
	frames := result.Best.Frames()
	reporters := r.progress.Concurrent(
		progress.Step{Number: 4, Name: progress.StepCollect, Total: frames},
		progress.Step{Number: 5, Name: progress.StepAnimation, Total: frames},
	)

	encodeCtx := services.WithStage(ctx, stageEncode)
	err = encoding.Encode(encodeCtx, cat, result.Best.Start, result.Best.End, out, encoding.PipelineOptions{
		Settings: settings,
		Collect:  reporters[0],
		Write:    reporters[1],
		Logger:   logging.WithContext(encodeCtx, logger),
	})
	if err != nil {
		if abortErr := out.Abort(); abortErr != nil {
			logger.Debug("partial output cleanup failed", logging.Error(abortErr))
		}
		return classify(ctx, services.ErrEncode, stageEncode, "write animation", result.OutputPath, err)
	}
	if err := out.Commit(); err != nil {
		return services.Wrap(services.ErrEncode, stageEncode, "finalize output", result.OutputPath, err)
	}
	logger.Info("animation written",
		logging.String("output", result.OutputPath),
		logging.String("format", result.Format),
		logging.Int64("bytes", out.Written()),
	)
	return nil
}
