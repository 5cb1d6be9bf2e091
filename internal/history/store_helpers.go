package history

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run          Run
		start        sql.NullInt64
		end          sql.NullInt64
		similarity   sql.NullFloat64
		composite    sql.NullFloat64
		outputPath   sql.NullString
		format       sql.NullString
		status       string
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.InputDir,
		&run.Extension,
		&run.FrameCount,
		&start,
		&end,
		&similarity,
		&composite,
		&run.DurationImportance,
		&outputPath,
		&format,
		&status,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, err
	}

	run.HasSelection = start.Valid && end.Valid
	run.StartIndex = int(start.Int64)
	run.EndIndex = int(end.Int64)
	run.Similarity = similarity.Float64
	run.Composite = composite.Float64
	run.OutputPath = outputPath.String
	run.Format = format.String
	run.Status = Status(status)
	run.ErrorMessage = errorMessage.String
	if t, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = t
	}
	if finishedRaw.Valid {
		if t, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = t
		}
	}
	return run, nil
}

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(timestampLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func stripLikeWildcards(value string) string {
	replacer := strings.NewReplacer(`%`, ``, `_`, ``)
	return replacer.Replace(value)
}
