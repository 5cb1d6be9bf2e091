package loader_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"seamless/internal/catalog"
	"seamless/internal/frame"
	"seamless/internal/loader"
)

func testCatalog(n int) *catalog.Catalog {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("/frames/%04d.png", i)
	}
	return catalog.FromPaths("/frames", "png", paths)
}

func TestLoadPopulatesEveryFrame(t *testing.T) {
	cat := testCatalog(25)
	var (
		mu     sync.Mutex
		counts []int
	)
	l := loader.New(loader.Options{
		Workers: 4,
		Decoder: frame.DecoderFunc(func(path string) ([]byte, error) { return []byte(path), nil }),
		Progress: func(completed, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 25 {
				t.Errorf("total = %d", total)
			}
			counts = append(counts, completed)
		},
	})

	if err := l.Load(context.Background(), cat); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, h := range cat.Frames() {
		data, ok := h.Data()
		if !ok || string(data) != cat.Path(i) {
			t.Fatalf("frame %d not loaded correctly: %q %v", i, data, ok)
		}
	}
	if len(counts) != 25 {
		t.Fatalf("expected 25 progress reports, got %d", len(counts))
	}
	for i, c := range counts {
		if c != i+1 {
			t.Fatalf("progress not monotonic: %v", counts)
		}
	}
}

func TestLoadBoundsConcurrency(t *testing.T) {
	cat := testCatalog(40)
	var inFlight, peak atomic.Int32
	l := loader.New(loader.Options{
		Workers: 3,
		Decoder: frame.DecoderFunc(func(string) ([]byte, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			defer inFlight.Add(-1)
			return []byte{1}, nil
		}),
	})
	if err := l.Load(context.Background(), cat); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if peak.Load() > 3 {
		t.Fatalf("expected at most 3 concurrent decodes, saw %d", peak.Load())
	}
}

func TestLoadDecodeFailureIsFatal(t *testing.T) {
	cat := testCatalog(10)
	l := loader.New(loader.Options{
		Workers: 1,
		Decoder: frame.DecoderFunc(func(path string) ([]byte, error) {
			if path == "/frames/0004.png" {
				return nil, errors.New("corrupt")
			}
			return []byte{1}, nil
		}),
	})
	err := l.Load(context.Background(), cat)
	if !errors.Is(err, frame.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if cat.Frame(4).Ready() {
		t.Fatal("failed frame must not be ready")
	}
}

func TestFramesReadableWhileLoading(t *testing.T) {
	cat := testCatalog(5)
	release := make(chan struct{})
	l := loader.New(loader.Options{
		Workers: 2,
		Decoder: frame.DecoderFunc(func(path string) ([]byte, error) {
			if path != cat.Path(0) {
				<-release
			}
			return []byte{7}, nil
		}),
	})
	done := make(chan error, 1)
	go func() { done <- l.Load(context.Background(), cat) }()

	data, err := cat.Frame(0).WaitReady(context.Background())
	if err != nil || len(data) != 1 {
		t.Fatalf("WaitReady(0) = %v, %v", data, err)
	}
	select {
	case err := <-done:
		t.Fatalf("load finished before decoders were released: %v", err)
	default:
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, h := range cat.Frames() {
		if !h.Ready() {
			t.Fatalf("frame %d not ready", h.Index())
		}
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := loader.New(loader.Options{Decoder: frame.DecoderFunc(func(string) ([]byte, error) { return nil, nil })})
	if err := l.Load(ctx, testCatalog(3)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
