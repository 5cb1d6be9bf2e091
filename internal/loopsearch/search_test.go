package loopsearch_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"seamless/internal/catalog"
	"seamless/internal/loopsearch"
	"seamless/internal/similarity"
)

func newCatalog(n int) *catalog.Catalog {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("/frames/%03d.png", i)
	}
	return catalog.FromPaths("/frames", "png", paths)
}

// storeIndexed gives frame i a buffer of the given length whose first byte is i.
func storeIndexed(cat *catalog.Catalog, lengths ...int) {
	for i, h := range cat.Frames() {
		size := 4
		if i < len(lengths) {
			size = lengths[i]
		}
		buf := make([]byte, size)
		buf[0] = byte(i)
		h.Store(buf)
	}
}

func matrixScorer(m map[[2]int]float64, fallback float64) similarity.Scorer {
	return similarity.ScorerFunc(func(a, b []byte) float64 {
		if v, ok := m[[2]int{int(a[0]), int(b[0])}]; ok {
			return v
		}
		return fallback
	})
}

func TestSearchPrefersMostSimilarPair(t *testing.T) {
	cat := newCatalog(4)
	storeIndexed(cat)
	scorer := matrixScorer(map[[2]int]float64{
		{0, 3}: 0.95,
		{0, 1}: 0.4, {0, 2}: 0.3,
		{1, 2}: 0.45, {1, 3}: 0.2,
		{2, 3}: 0.49,
	}, 0)

	res, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{
		DurationImportance: 0.1,
		Scorer:             scorer,
		Workers:            2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Best.Start != 0 || res.Best.End != 3 {
		t.Fatalf("expected {0,3}, got %+v", res.Best)
	}
	if res.Best.Similarity != 0.95 {
		t.Fatalf("similarity = %v", res.Best.Similarity)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("expected one candidate per start index, got %d", len(res.Candidates))
	}
	for k := 1; k < len(res.Candidates); k++ {
		if res.Candidates[k].Composite > res.Candidates[k-1].Composite {
			t.Fatalf("candidates not ranked: %+v", res.Candidates)
		}
	}
}

func TestSearchSingleFrameHasNoCandidates(t *testing.T) {
	cat := newCatalog(1)
	storeIndexed(cat)
	if _, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{}); !errors.Is(err, loopsearch.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSearchRejectsBadWeight(t *testing.T) {
	cat := newCatalog(2)
	storeIndexed(cat)
	if _, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{DurationImportance: 1.5}); err == nil {
		t.Fatal("expected error for weight outside [0,1]")
	}
}

func TestSearchSkipsMismatchedSizes(t *testing.T) {
	cat := newCatalog(5)
	// Frames 0, 2 share one size, 1, 3 another; frame 4 is unique.
	storeIndexed(cat, 4, 8, 4, 8, 12)

	res, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{
		DurationImportance: 0.5,
		Scorer:             similarity.ScorerFunc(func(a, b []byte) float64 { return 1 }),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Best.Feasible {
		t.Fatalf("expected a feasible best pair, got %+v", res.Best)
	}
	if (res.Best.Start%2 != res.Best.End%2) || res.Best.End == 4 {
		t.Fatalf("best pair mixes sizes: %+v", res.Best)
	}

	var degenerate []loopsearch.Candidate
	for _, c := range res.Candidates {
		if !c.Feasible {
			degenerate = append(degenerate, c)
		}
	}
	// Starts 2 and 3 have no later same-size frame.
	if len(degenerate) != 2 {
		t.Fatalf("expected 2 degenerate candidates, got %+v", res.Candidates)
	}
	for _, c := range degenerate {
		if c.Start != c.End || c.Composite != 0 || c.Similarity != 0 {
			t.Fatalf("degenerate candidate should be a zero self pair: %+v", c)
		}
	}
	last := res.Candidates[len(res.Candidates)-1]
	if last.Feasible {
		t.Fatalf("degenerate candidates should rank last: %+v", res.Candidates)
	}
}

func TestSearchAllDegenerate(t *testing.T) {
	cat := newCatalog(3)
	storeIndexed(cat, 4, 8, 12)
	res, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{DurationImportance: 0.5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Best.Feasible || res.Best.Start != 0 || res.Best.End != 0 {
		t.Fatalf("expected degenerate {0,0}, got %+v", res.Best)
	}
}

func TestSearchTieKeepsSmallestEnd(t *testing.T) {
	cat := newCatalog(6)
	storeIndexed(cat)
	res, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{
		DurationImportance: 0,
		Scorer:             similarity.ScorerFunc(func(a, b []byte) float64 { return 0.7 }),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, c := range res.Candidates {
		if c.End != c.Start+1 {
			t.Fatalf("tie should keep first j: %+v", c)
		}
	}
	if res.Best.Start != 0 {
		t.Fatalf("stable ranking should keep start 0 first, got %+v", res.Best)
	}
}

func TestSearchLongerLoopWinsAtEqualSimilarity(t *testing.T) {
	cat := newCatalog(8)
	storeIndexed(cat)
	res, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{
		DurationImportance: 0.5,
		Scorer:             similarity.ScorerFunc(func(a, b []byte) float64 { return 0.9 }),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Best.Start != 0 || res.Best.End != 7 {
		t.Fatalf("expected the full span, got %+v", res.Best)
	}
}

func TestSqrtSpanIsMonotonic(t *testing.T) {
	prev := -1.0
	for end := 1; end < 20; end++ {
		got := loopsearch.SqrtSpan(0, end, 20)
		if got < prev {
			t.Fatalf("preference decreased at end=%d", end)
		}
		prev = got
	}
	if loopsearch.SqrtSpan(0, 1, 0) != 0 {
		t.Fatal("zero frames should not divide by zero")
	}
}

func TestSearchCustomPreference(t *testing.T) {
	cat := newCatalog(5)
	storeIndexed(cat)
	shortest := func(start, end, n int) float64 { return 1 / float64(end-start) }
	res, err := loopsearch.Search(context.Background(), cat, loopsearch.Options{
		DurationImportance: 1,
		Preference:         shortest,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Best.Frames() != 1 {
		t.Fatalf("expected a one-frame span, got %+v", res.Best)
	}
}

func TestSearchOverlapsWithLoading(t *testing.T) {
	cat := newCatalog(6)
	var progress atomic.Int32
	done := make(chan struct{})
	var (
		res loopsearch.Result
		err error
	)
	go func() {
		defer close(done)
		res, err = loopsearch.Search(context.Background(), cat, loopsearch.Options{
			DurationImportance: 0.5,
			Progress: func(completed, total int) {
				if total != 5 {
					t.Errorf("total = %d", total)
				}
				progress.Store(int32(completed))
			},
		})
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("search finished before frames were loaded")
	default:
	}
	for i := len(cat.Frames()) - 1; i >= 0; i-- {
		cat.Frame(i).Store([]byte{byte(i), 0, 0, 0})
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("search did not finish after frames were loaded")
	}
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.Best.Feasible {
		t.Fatalf("expected feasible result, got %+v", res.Best)
	}
	if progress.Load() != 5 {
		t.Fatalf("expected 5 progress reports, got %d", progress.Load())
	}
}

func TestSearchCancelledWhileWaiting(t *testing.T) {
	cat := newCatalog(3)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := loopsearch.Search(ctx, cat, loopsearch.Options{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRankPutsFeasibleFirst(t *testing.T) {
	candidates := []loopsearch.Candidate{
		{Start: 0, End: 0},
		{Start: 1, End: 2, Composite: -0.5, Feasible: true},
		{Start: 2, End: 3, Composite: 0.3, Feasible: true},
		{Start: 3, End: 4, Composite: 0.3, Feasible: true},
	}
	loopsearch.Rank(candidates)
	want := []int{2, 3, 1, 0}
	for i, start := range want {
		if candidates[i].Start != start {
			t.Fatalf("rank[%d].Start = %d, want %d (%+v)", i, candidates[i].Start, start, candidates)
		}
	}
}
