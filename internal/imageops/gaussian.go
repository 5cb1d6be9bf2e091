package imageops

import (
	"errors"
	"image"
	"math"

	"seamless/internal/imagecodec"
)

// ErrInvalidKernel reports a non-positive radius or sigma.
var ErrInvalidKernel = errors.New("radius and sigma must be greater than zero")

// Kernel returns the 2D gaussian weight at offset (x, y) from the center.
func Kernel(x, y int, sigma float64) float64 {
	exponent := -float64(x*x+y*y) / (2 * sigma * sigma)
	return math.Exp(exponent) / (2 * math.Pi * sigma * sigma)
}

// KernelMatrix builds a size×size matrix of weights centered on size/2.
func KernelMatrix(size int, sigma float64) [][]float64 {
	center := size / 2
	matrix := make([][]float64, size)
	for y := range size {
		matrix[y] = make([]float64, size)
		for x := range size {
			matrix[y][x] = Kernel(x-center, y-center, sigma)
		}
	}
	return matrix
}

// Gaussian blurs img with a kernel of size 2·radius. Each output pixel is the
// weight-normalized sum of the kernel window; pixels closer than radius to an
// edge have no full window and stay transparent black.
func Gaussian(img image.Image, radius int, sigma float64) (*image.NRGBA, error) {
	if radius <= 0 || sigma <= 0 {
		return nil, ErrInvalidKernel
	}
	src := imagecodec.ToNRGBA(img)
	width, height := src.Rect.Dx(), src.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, width, height))

	size := radius * 2
	half := size / 2
	kernel := KernelMatrix(size, sigma)

	for y := half; y < height-half; y++ {
		for x := half; x < width-half; x++ {
			var acc [4]float64
			var weightSum float64
			for j := -half; j < half; j++ {
				row := src.Pix[(y+j)*src.Stride:]
				for i := -half; i < half; i++ {
					weight := kernel[j+half][i+half]
					px := row[(x+i)*4 : (x+i)*4+4]
					for c := range 4 {
						acc[c] += float64(px[c]) * weight
					}
					weightSum += weight
				}
			}
			dst := out.Pix[y*out.Stride+x*4 : y*out.Stride+x*4+4]
			for c := range 4 {
				dst[c] = clampByte(math.Round(acc[c] / weightSum))
			}
		}
	}
	return out, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
