package encoding

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"seamless/internal/logging"
)

// FrameSource exposes frame paths by catalog index.
type FrameSource interface {
	Len() int
	Path(i int) string
}

// PipelineOptions configures Encode.
type PipelineOptions struct {
	Settings Settings
	// Collect is advanced once per frame handed to the collector.
	Collect Reporter
	// Write is advanced once per frame consumed by the writer.
	Write  Reporter
	Logger *slog.Logger
}

// FrameTimestamp returns the presentation time of frame offset frames after
// the loop start at the given frame rate.
func FrameTimestamp(offset, fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(int64(offset) * int64(time.Second) / int64(fps))
}

// Encode streams frames [start, end) of src into sink. A feeder goroutine adds
// frames in index order while a second goroutine drives the writer; both are
// joined before Encode returns.
func Encode(ctx context.Context, src FrameSource, start, end int, sink io.Writer, opts PipelineOptions) error {
	if start < 0 || end > src.Len() || start >= end {
		return fmt.Errorf("%w: invalid frame range [%d, %d) for %d frames", ErrEncode, start, end, src.Len())
	}
	collector, writer, err := New(opts.Settings)
	if err != nil {
		return err
	}
	fps := collector.s.settings.FPS
	logger := logging.NewComponentLogger(opts.Logger, "encoder")

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		for i := start; i < end; i++ {
			if err := gctx.Err(); err != nil {
				collector.CloseWithError(err)
				return err
			}
			if err := collector.AddFrame(i, src.Path(i), FrameTimestamp(i-start, fps)); err != nil {
				logger.Error("frame collection failed",
					logging.Int(logging.FieldFrameIndex, i),
					logging.String(logging.FieldFramePath, src.Path(i)),
					logging.Error(err),
					logging.String(logging.FieldEventType, "frame_collect_failed"),
					logging.String(logging.FieldErrorHint, "frame files must stay in place until the run finishes"),
				)
				collector.CloseWithError(err)
				return err
			}
			if opts.Collect != nil {
				opts.Collect.Increase()
			}
		}
		collector.Close()
		if opts.Collect != nil {
			opts.Collect.Done(fmt.Sprintf("collected %d frames", end-start))
		}
		return nil
	})
	group.Go(func() error {
		return writer.Write(sink, opts.Write)
	})
	if err := group.Wait(); err != nil {
		return err
	}
	logger.Debug("animation finalized",
		logging.String("format", collector.s.settings.Format),
		logging.Int("frames", end-start),
	)
	return nil
}
