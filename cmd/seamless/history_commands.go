package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"seamless/internal/history"
	"seamless/internal/progress"
	"seamless/internal/services"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				if store == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
					return nil
				}
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRunTable(runs))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 lists all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run (a unique ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(cmd.Context(), func(store *history.Store) error {
				if store == nil {
					return services.Wrap(services.ErrConfiguration, "history", "show", "run history is disabled", nil)
				}
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, history.ErrNotFound) {
						return services.Wrap(services.ErrInput, "history", "show", "", err)
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRunDetail(run))
				return nil
			})
		},
	}
}

func renderRunTable(runs []history.Run) string {
	headers := []string{"ID", "Started", "Status", "Input", "Loop", "Similarity", "Output"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		loop, sim := "-", "-"
		if run.HasSelection {
			loop = fmt.Sprintf("%d-%d", run.StartIndex, run.EndIndex)
			sim = percent(run.Similarity)
		}
		rows = append(rows, []string{
			shortID(run.ID),
			formatTime(run.StartedAt),
			string(run.Status),
			filepath.Base(run.InputDir),
			loop,
			sim,
			filepath.Base(run.OutputPath),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft})
}

func renderRunDetail(run history.Run) string {
	pairs := [][2]string{
		{"ID", run.ID},
		{"Status", string(run.Status)},
		{"Input", run.InputDir},
		{"Extension", run.Extension},
		{"Frames scanned", strconv.Itoa(run.FrameCount)},
		{"Duration importance", strconv.FormatFloat(run.DurationImportance, 'f', -1, 64)},
	}
	if run.HasSelection {
		pairs = append(pairs,
			[2]string{"Loop", fmt.Sprintf("%d-%d (%d frames)", run.StartIndex, run.EndIndex, run.LoopFrames())},
			[2]string{"Similarity", percent(run.Similarity)},
			[2]string{"Composite", strconv.FormatFloat(run.Composite, 'f', 4, 64)},
		)
	}
	pairs = append(pairs,
		[2]string{"Output", fmt.Sprintf("%s (%s)", run.OutputPath, run.Format)},
		[2]string{"Started", formatTime(run.StartedAt)},
		[2]string{"Duration", progress.FormatDuration(run.Duration())},
	)
	if run.ErrorMessage != "" {
		pairs = append(pairs, [2]string{"Error", run.ErrorMessage})
	}
	return renderKeyValues(pairs)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(historyTimeLayout)
}
