// Package similarity scores how alike two frames are. The pixel metric works
// on raw decoded buffers and drives the loop search; the perceptual hash
// algorithms work on whole images and back the compare command.
package similarity

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/corona10/goimagehash"

	"seamless/internal/imagecodec"
)

// ErrSizeMismatch reports that two buffers of different lengths were compared.
var ErrSizeMismatch = errors.New("buffers differ in size")

// Scorer scores two equal-length pixel buffers. Identical buffers score 1 and
// lower values mean more different. Implementations must be pure.
type Scorer interface {
	Score(a, b []byte) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(a, b []byte) float64

// Score calls f(a, b).
func (f ScorerFunc) Score(a, b []byte) float64 { return f(a, b) }

// NormalizedEuclidean is the default Scorer: one minus the root mean square
// of the per-byte differences scaled to [0, 1].
var NormalizedEuclidean Scorer = ScorerFunc(normalizedEuclidean)

func normalizedEuclidean(a, b []byte) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 1
	}
	var sum float64
	for i := range n {
		diff := (float64(a[i]) - float64(b[i])) / 255
		sum += diff * diff
	}
	return 1 - math.Sqrt(sum/float64(n))
}

// CompareBuffers scores a and b with the normalized euclidean metric,
// rejecting buffers of different lengths.
func CompareBuffers(a, b []byte) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d bytes", ErrSizeMismatch, len(a), len(b))
	}
	return NormalizedEuclidean.Score(a, b), nil
}

// Algorithm names an image comparison method.
type Algorithm string

const (
	AlgorithmNormalizedEuclidean Algorithm = "normalized-euclidean-distance"
	AlgorithmDifferenceHash      Algorithm = "difference-hash"
	AlgorithmPerceptionHash      Algorithm = "perception-hash"
	AlgorithmAverageHash         Algorithm = "average-hash"
)

var algorithms = []Algorithm{
	AlgorithmNormalizedEuclidean,
	AlgorithmDifferenceHash,
	AlgorithmPerceptionHash,
	AlgorithmAverageHash,
}

// Algorithms lists every supported comparison method.
func Algorithms() []Algorithm {
	return slices.Clone(algorithms)
}

// ParseAlgorithm resolves a user supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	candidate := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if candidate == "" {
		return AlgorithmNormalizedEuclidean, nil
	}
	if slices.Contains(algorithms, candidate) {
		return candidate, nil
	}
	names := make([]string, len(algorithms))
	for i, a := range algorithms {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unknown algorithm %q (expected one of %s)", name, strings.Join(names, ", "))
}

// CompareImages scores two decoded images with the chosen algorithm. Hash
// algorithms report 1 - hamming distance / hash bits.
func CompareImages(algorithm Algorithm, a, b image.Image) (float64, error) {
	if algorithm == AlgorithmNormalizedEuclidean {
		return CompareBuffers(imagecodec.ToNRGBA(a).Pix, imagecodec.ToNRGBA(b).Pix)
	}

	hash, err := hashFunc(algorithm)
	if err != nil {
		return 0, err
	}
	ha, err := hash(a)
	if err != nil {
		return 0, fmt.Errorf("hash source image: %w", err)
	}
	hb, err := hash(b)
	if err != nil {
		return 0, fmt.Errorf("hash target image: %w", err)
	}
	dist, err := ha.Distance(hb)
	if err != nil {
		return 0, fmt.Errorf("hash distance: %w", err)
	}
	bits := ha.Bits()
	if bits <= 0 {
		return 0, fmt.Errorf("hash distance: empty hash")
	}
	return 1 - float64(dist)/float64(bits), nil
}

func hashFunc(algorithm Algorithm) (func(image.Image) (*goimagehash.ImageHash, error), error) {
	switch algorithm {
	case AlgorithmDifferenceHash:
		return goimagehash.DifferenceHash, nil
	case AlgorithmPerceptionHash:
		return goimagehash.PerceptionHash, nil
	case AlgorithmAverageHash:
		return goimagehash.AverageHash, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}
