package loopsearch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"seamless/internal/frame"
	"seamless/internal/logging"
	"seamless/internal/similarity"
)

// ErrNoCandidates reports a sequence too short to loop.
var ErrNoCandidates = errors.New("at least two frames are required")

// Frames is the ordered frame set being searched.
type Frames interface {
	Len() int
	Frame(i int) *frame.Handle
}

// Preference scores loop length for a pair (start, end) out of n frames. It
// should grow with end-start so longer loops win when similarity is equal.
type Preference func(start, end, n int) float64

// SqrtSpan is the default Preference: sqrt((end-start)/n).
func SqrtSpan(start, end, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(float64(end-start) / float64(n))
}

// Candidate is the best end frame found for one start frame.
type Candidate struct {
	Start      int
	End        int
	Similarity float64
	Composite  float64
	// Feasible is false when no later frame had a matching buffer size; such
	// candidates are the self pair {Start, Start} with zero scores.
	Feasible bool
}

// Frames returns the number of frames the loop plays (End exclusive).
func (c Candidate) Frames() int { return c.End - c.Start }

// Result holds the ranked candidates and the chosen pair.
type Result struct {
	Best Candidate
	// Candidates is ranked: feasible before degenerate, then composite descending.
	Candidates []Candidate
}

// ProgressFunc is called once per finished start index.
type ProgressFunc func(completed, total int)

// Options configures a Search.
type Options struct {
	// DurationImportance weighs loop length against similarity, in [0, 1].
	DurationImportance float64
	Scorer             similarity.Scorer
	Preference         Preference
	// Workers bounds concurrently scored start indices; <= 0 uses NumCPU.
	Workers  int
	Progress ProgressFunc
	Logger   *slog.Logger
}

// Search scores every start frame and returns the ranked result. It blocks on
// frames that are not loaded yet and stops early when ctx is cancelled.
func Search(ctx context.Context, frames Frames, opts Options) (Result, error) {
	n := frames.Len()
	if n < 2 {
		return Result{}, fmt.Errorf("%w: got %d", ErrNoCandidates, n)
	}
	if opts.DurationImportance < 0 || opts.DurationImportance > 1 {
		return Result{}, fmt.Errorf("duration importance %v outside [0, 1]", opts.DurationImportance)
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = similarity.NormalizedEuclidean
	}
	preference := opts.Preference
	if preference == nil {
		preference = SqrtSpan
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := logging.NewComponentLogger(opts.Logger, "loopsearch")

	total := n - 1
	candidates := make([]Candidate, total)

	var (
		progressMu sync.Mutex
		completed  int
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := range total {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			candidate, err := bestForStart(gctx, frames, i, scorer, preference, opts.DurationImportance)
			if err != nil {
				return err
			}
			candidates[i] = candidate
			logger.Debug("start frame scored",
				logging.Int(logging.FieldFrameIndex, i),
				logging.Int("end_index", candidate.End),
				logging.Float64("composite", candidate.Composite),
				logging.Bool("feasible", candidate.Feasible),
			)
			if opts.Progress != nil {
				progressMu.Lock()
				completed++
				opts.Progress(completed, total)
				progressMu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	Rank(candidates)
	return Result{Best: candidates[0], Candidates: candidates}, nil
}

// bestForStart scans j = i+1..n-1 in order, keeping the first maximum.
func bestForStart(ctx context.Context, frames Frames, i int, scorer similarity.Scorer, preference Preference, weight float64) (Candidate, error) {
	n := frames.Len()
	a, err := frames.Frame(i).WaitReady(ctx)
	if err != nil {
		return Candidate{}, err
	}

	best := Candidate{Start: i, End: i}
	for j := i + 1; j < n; j++ {
		b, err := frames.Frame(j).WaitReady(ctx)
		if err != nil {
			return Candidate{}, err
		}
		if len(a) != len(b) {
			continue
		}
		sim := scorer.Score(a, b)
		composite := weight*preference(i, j, n) + (1-weight)*sim
		if !best.Feasible || composite > best.Composite {
			best = Candidate{Start: i, End: j, Similarity: sim, Composite: composite, Feasible: true}
		}
	}
	return best, nil
}

// Rank orders candidates in place: feasible first, then by composite
// descending. Equal composites keep their original order.
func Rank(candidates []Candidate) {
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if a.Feasible != b.Feasible {
			if a.Feasible {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Composite, a.Composite)
	})
}
