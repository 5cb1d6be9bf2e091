// Package loader decodes every frame of a catalog with a bounded worker pool.
package loader

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"seamless/internal/catalog"
	"seamless/internal/frame"
	"seamless/internal/logging"
)

// ProgressFunc receives the running count of loaded frames. Counts are
// strictly increasing; calls may come from any worker goroutine.
type ProgressFunc func(completed, total int)

// Options configures a Loader.
type Options struct {
	// Workers bounds concurrent decodes; <= 0 uses runtime.NumCPU().
	Workers  int
	Decoder  frame.Decoder
	Progress ProgressFunc
	Logger   *slog.Logger
}

// Loader populates frame handles in parallel.
type Loader struct {
	workers  int
	decoder  frame.Decoder
	progress ProgressFunc
	logger   *slog.Logger
}

// New constructs a Loader.
func New(opts Options) *Loader {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Loader{
		workers:  workers,
		decoder:  opts.Decoder,
		progress: opts.Progress,
		logger:   logging.NewComponentLogger(opts.Logger, "loader"),
	}
}

// Load decodes every frame in cat and returns once all are ready. The first
// decode failure cancels the remaining work and is returned.
func (l *Loader) Load(ctx context.Context, cat *catalog.Catalog) error {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(l.workers)

	total := cat.Len()
	var (
		completed atomic.Int64
		reportMu  sync.Mutex
	)
	for _, handle := range cat.Frames() {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := handle.Load(l.decoder); err != nil {
				l.logger.Error("frame decode failed",
					logging.Int(logging.FieldFrameIndex, handle.Index()),
					logging.String(logging.FieldFramePath, handle.Path()),
					logging.Error(err),
					logging.String(logging.FieldEventType, "frame_decode_failed"),
					logging.String(logging.FieldErrorHint, "remove or re-export the corrupt frame"),
				)
				return err
			}
			if l.progress != nil {
				// Serialize so observers see counts in increasing order.
				reportMu.Lock()
				l.progress(int(completed.Add(1)), total)
				reportMu.Unlock()
			}
			l.logger.Debug("frame loaded",
				logging.Int(logging.FieldFrameIndex, handle.Index()),
				logging.String(logging.FieldFramePath, handle.Path()),
			)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	// A cancelled parent can stop the loop before any worker notices.
	return ctx.Err()
}
