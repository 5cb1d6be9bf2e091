package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seamless/internal/config"
	"seamless/internal/history"
	"seamless/internal/progress"
	"seamless/internal/services"
	"seamless/internal/workflow"
)

type fastFlags struct {
	extension          string
	durationImportance float64
	quality            int
	output             string
	format             string
	fps                int
	workers            int
}

func newFastCommand(ctx *commandContext) *cobra.Command {
	var flags fastFlags

	cmd := &cobra.Command{
		Use:   "fast <frames-dir>",
		Short: "Make a seamless loop by finding the most similar frames",
		Long: `Scan every frame in a directory, find the pair of frames that closes the
best loop, and encode the frames between them into an animation.

A higher --duration-importance favors longer loops over closer matches; too
small a value may produce a loop of a single frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyFastFlags(cmd, *base, flags)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			inputDir, err := filepath.Abs(args[0])
			if err != nil {
				return services.Wrap(services.ErrInput, "fast", "resolve input", args[0], err)
			}

			var result workflow.Result
			err = ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				runner := workflow.NewRunner(&cfg, logger,
					workflow.WithProgress(progress.NewFactory(cmd.ErrOrStderr(), logger)),
					workflow.WithHistory(store),
				)
				var runErr error
				result, runErr = runner.Run(cmd.Context(), workflow.Request{InputDir: inputDir})
				return runErr
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderRunResult(result))
			return nil
		},
	}

	defaults := config.Default()
	cmd.Flags().StringVarP(&flags.extension, "extension", "e", defaults.Search.Extension, "Frames' file extension")
	cmd.Flags().Float64VarP(&flags.durationImportance, "duration-importance", "d", defaults.Search.DurationImportance, "Weight of loop length against similarity, from 0 to 1")
	cmd.Flags().IntVarP(&flags.quality, "quality", "q", defaults.Encode.Quality, "Encoding quality, from 1 to 100 (GIF palette size, MJPEG JPEG quality)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaults.Encode.Output, "Output animation file")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format (gif or mjpeg); inferred from --output when omitted, and renames the configured output to match when --output is not given")
	cmd.Flags().IntVar(&flags.fps, "fps", defaults.Encode.FPS, "Output frame rate")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent search and load workers (0 uses every CPU)")
	return cmd
}

// applyFastFlags overlays explicitly set flags on a copy of the loaded config.
func applyFastFlags(cmd *cobra.Command, cfg config.Config, flags fastFlags) (config.Config, error) {
	changed := cmd.Flags().Changed
	if changed("extension") {
		cfg.Search.Extension = config.NormalizeExtension(flags.extension)
	}
	if changed("duration-importance") {
		cfg.Search.DurationImportance = flags.durationImportance
	}
	if changed("quality") {
		cfg.Encode.Quality = flags.quality
	}
	if changed("output") {
		expanded, err := config.ExpandPath(flags.output)
		if err != nil {
			return cfg, services.Wrap(services.ErrInput, "fast", "resolve output", flags.output, err)
		}
		cfg.Encode.Output = expanded
		if !changed("format") {
			cfg.Encode.Format = config.InferFormat(expanded)
		}
	}
	if changed("format") {
		cfg.Encode.Format = strings.ToLower(strings.TrimSpace(flags.format))
		if !changed("output") {
			cfg.Encode.Output = config.OutputForFormat(cfg.Encode.Output, cfg.Encode.Format)
		}
	}
	if changed("fps") {
		cfg.Encode.FPS = flags.fps
	}
	if changed("workers") {
		cfg.Search.Workers = flags.workers
		cfg.Search.LoadWorkers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, services.Wrap(services.ErrInput, "fast", "flags", "", err)
	}
	return cfg, nil
}

func renderRunResult(result workflow.Result) string {
	best := result.Best
	return renderKeyValues([][2]string{
		{"Run", result.RunID},
		{"Frames scanned", strconv.Itoa(result.FrameCount)},
		{"Loop start", strconv.Itoa(best.Start)},
		{"Loop end", strconv.Itoa(best.End)},
		{"Loop frames", strconv.Itoa(best.Frames())},
		{"Similarity", percent(best.Similarity)},
		{"Composite", strconv.FormatFloat(best.Composite, 'f', 4, 64)},
		{"Output", fmt.Sprintf("%s (%s)", result.OutputPath, result.Format)},
		{"Elapsed", progress.FormatDuration(result.Elapsed)},
	})
}
