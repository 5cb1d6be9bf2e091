package workflow

import (
	"context"
	"log/slog"
	"time"

	"seamless/internal/history"
	"seamless/internal/logging"
)

func (r *Runner) record(ctx context.Context, logger *slog.Logger, result Result, started time.Time, runErr error) {
	if r.history == nil {
		return
	}
	run := history.Run{
		ID:                 result.RunID,
		InputDir:           result.InputDir,
		Extension:          r.cfg.Search.Extension,
		FrameCount:         result.FrameCount,
		DurationImportance: r.cfg.Search.DurationImportance,
		OutputPath:         result.OutputPath,
		Format:             result.Format,
		Status:             history.StatusSucceeded,
		StartedAt:          started,
		FinishedAt:         started.Add(result.Elapsed),
	}
	if result.Best.Feasible {
		run.HasSelection = true
		run.StartIndex = result.Best.Start
		run.EndIndex = result.Best.End
		run.Similarity = result.Best.Similarity
		run.Composite = result.Best.Composite
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorMessage = runErr.Error()
	}

	// The run context may already be cancelled; the record should still land.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := r.history.Record(recordCtx, run); err != nil {
		logging.WarnWithContext(logger, "run history not recorded", "history_record_failed",
			"check history.path permissions or disable history",
			logging.String("history_path", r.history.Path()),
			logging.Error(err),
		)
		return
	}
	logger.Debug("run recorded", logging.String("history_path", r.history.Path()))
}
