// Package progress renders per-step run progress: a terminal bar when the
// output is interactive, sampled log lines otherwise.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"seamless/internal/logging"
)

// TotalSteps is the number of steps of a full run.
const TotalSteps = 5

// Step names, in run order.
const (
	StepIndexing  = "indexing"
	StepLoading   = "loading files"
	StepMatching  = "finding matching frames"
	StepCollect   = "collecting frames"
	StepAnimation = "making the animation"
)

// Reporter tracks one step. Increase may be called from many goroutines.
type Reporter interface {
	Increase()
	Done(msg string)
}

// Step describes a unit of work shown to the user.
type Step struct {
	Number int
	Name   string
	Total  int
}

// Label renders "[n/5] Name".
func (s Step) Label() string {
	return fmt.Sprintf("[%d/%d] %s", s.Number, TotalSteps, cases.Title(language.Und).String(s.Name))
}

// Factory creates reporters bound to one output stream.
type Factory struct {
	out         io.Writer
	logger      *slog.Logger
	interactive bool
	now         func() time.Time
}

// NewFactory returns a Factory that draws bars when out is a terminal and
// logs sampled progress through logger otherwise.
func NewFactory(out io.Writer, logger *slog.Logger) *Factory {
	return newFactory(out, logger, logging.IsTerminal(out))
}

func newFactory(out io.Writer, logger *slog.Logger, interactive bool) *Factory {
	if out == nil {
		out = io.Discard
	}
	return &Factory{
		out:         out,
		logger:      logging.NewComponentLogger(logger, "progress"),
		interactive: interactive,
		now:         time.Now,
	}
}

// Start creates a reporter for a single step.
func (f *Factory) Start(step Step) Reporter {
	return f.Concurrent(step)[0]
}

// Concurrent creates reporters for steps that run at the same time. In
// interactive mode they share one bar whose length is the sum of the totals.
func (f *Factory) Concurrent(steps ...Step) []Reporter {
	reporters := make([]Reporter, len(steps))
	if !f.interactive {
		for i, step := range steps {
			reporters[i] = &logReporter{
				factory: f,
				step:    step,
				started: f.now(),
				sampler: logging.NewProgressSampler(10),
			}
		}
		return reporters
	}

	shared := &sharedBar{out: f.out, pending: len(steps)}
	var total int64
	labels := make([]string, len(steps))
	for i, step := range steps {
		total += int64(max(step.Total, 0))
		labels[i] = step.Label()
	}
	shared.bar = progressbar.NewOptions64(max(total, 1),
		progressbar.OptionSetWriter(f.out),
		progressbar.OptionSetDescription(strings.Join(labels, " + ")),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	for i, step := range steps {
		reporters[i] = &barReporter{factory: f, shared: shared, step: step, started: f.now()}
	}
	return reporters
}

type sharedBar struct {
	mu      sync.Mutex
	out     io.Writer
	bar     *progressbar.ProgressBar
	pending int
}

type barReporter struct {
	factory *Factory
	shared  *sharedBar
	step    Step
	started time.Time
	once    sync.Once
}

func (r *barReporter) Increase() {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	_ = r.shared.bar.Add(1)
}

func (r *barReporter) Done(msg string) {
	r.once.Do(func() {
		line := finishedLine(msg, r.factory.now().Sub(r.started))
		r.shared.mu.Lock()
		defer r.shared.mu.Unlock()
		r.shared.pending--
		_ = r.shared.bar.Clear()
		fmt.Fprintln(r.shared.out, line)
		if r.shared.pending <= 0 {
			_ = r.shared.bar.Finish()
			return
		}
		_ = r.shared.bar.RenderBlank()
	})
}

type logReporter struct {
	factory   *Factory
	step      Step
	started   time.Time
	completed atomic.Int64
	sampler   *logging.ProgressSampler
	once      sync.Once
}

func (r *logReporter) Increase() {
	n := r.completed.Add(1)
	percent := -1.0
	if r.step.Total > 0 {
		percent = float64(n) * 100 / float64(r.step.Total)
	}
	if !r.sampler.ShouldLog(percent, r.step.Name) {
		return
	}
	r.factory.logger.Info(r.step.Label(),
		logging.String(logging.FieldStage, r.step.Name),
		logging.Int64("completed", n),
		logging.Int("total", r.step.Total),
		logging.Float64("percent", float64(int(percent*10))/10),
	)
}

func (r *logReporter) Done(msg string) {
	r.once.Do(func() {
		elapsed := r.factory.now().Sub(r.started)
		fmt.Fprintln(r.factory.out, finishedLine(msg, elapsed))
		r.factory.logger.Debug("step finished",
			logging.String(logging.FieldStage, r.step.Name),
			logging.Duration("elapsed", elapsed),
		)
	})
}

func finishedLine(msg string, elapsed time.Duration) string {
	return fmt.Sprintf("%12s %s in %s", "Finished", msg, FormatDuration(elapsed))
}

// FormatDuration renders short durations in milliseconds and longer ones as
// 1h2m3s style strings.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	d = d.Round(time.Second)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, "")
}
