package main

import (
	"errors"
	"image"
	"strings"

	"github.com/spf13/cobra"

	"seamless/internal/imagecodec"
	"seamless/internal/imageops"
	"seamless/internal/services"
	"seamless/internal/similarity"
)

var skipConfig = map[string]string{"skipConfigLoad": "true"}

func newCompareCommand() *cobra.Command {
	var algorithmName string

	cmd := &cobra.Command{
		Use:         "compare <source> <target>",
		Short:       "Compare two images",
		Args:        cobra.ExactArgs(2),
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm, err := similarity.ParseAlgorithm(algorithmName)
			if err != nil {
				return services.Wrap(services.ErrInput, "compare", "algorithm", "", err)
			}
			source, err := openImage("compare", args[0])
			if err != nil {
				return err
			}
			target, err := openImage("compare", args[1])
			if err != nil {
				return err
			}
			score, err := similarity.CompareImages(algorithm, source, target)
			if err != nil {
				if errors.Is(err, similarity.ErrSizeMismatch) {
					return services.Wrap(services.ErrInput, "compare", string(algorithm),
						"images must have the same dimensions", err)
				}
				return services.Wrap(services.ErrDecode, "compare", string(algorithm), "", err)
			}
			writeLine(cmd.OutOrStdout(), "These two images are %s similar.", percent(score))
			return nil
		},
	}

	names := make([]string, 0, len(similarity.Algorithms()))
	for _, a := range similarity.Algorithms() {
		names = append(names, string(a))
	}
	cmd.Flags().StringVarP(&algorithmName, "algorithm", "a", string(similarity.AlgorithmNormalizedEuclidean),
		"Algorithm to use ("+strings.Join(names, ", ")+")")
	return cmd
}

func newGaussianCommand() *cobra.Command {
	var radius int
	var sigma float64
	var output string

	cmd := &cobra.Command{
		Use:         "gaussian <input>",
		Short:       "Blur an image with a gaussian kernel",
		Args:        cobra.ExactArgs(1),
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openImage("gaussian", args[0])
			if err != nil {
				return err
			}
			blurred, err := imageops.Gaussian(img, radius, sigma)
			if err != nil {
				return services.Wrap(services.ErrInput, "gaussian", "blur", "", err)
			}
			if err := imagecodec.SavePNG(output, blurred); err != nil {
				return services.Wrap(services.ErrEncode, "gaussian", "save", output, err)
			}
			writeLine(cmd.OutOrStdout(), "Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&radius, "radius", "r", 3, "Kernel radius; the kernel spans 2·radius pixels (must not be 0)")
	cmd.Flags().Float64VarP(&sigma, "sigma", "s", 1.0, "Gaussian standard deviation (must not be 0)")
	cmd.Flags().StringVarP(&output, "output", "o", "output.png", "Output PNG file")
	return cmd
}

func newBordersCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "borders <input>",
		Short:       "Print the average color of the first and last rows",
		Args:        cobra.ExactArgs(1),
		Annotations: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := openImage("borders", args[0])
			if err != nil {
				return err
			}
			colors, err := imageops.Borders(img)
			if err != nil {
				return services.Wrap(services.ErrInput, "borders", "average", args[0], err)
			}
			out := cmd.OutOrStdout()
			writeLine(out, "First row average color: %s", colors.First.Hex())
			writeLine(out, "Last row average color: %s", colors.Last.Hex())
			return nil
		},
	}
}

func openImage(stage, path string) (image.Image, error) {
	img, err := imagecodec.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, stage, "open image", path, err)
	}
	return img, nil
}
