package preflight

import (
	"fmt"

	"seamless/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks for a run reading frames with the given file
// extension from inputDir and writing outputPath.
func RunAll(inputDir, extension, outputPath string) []Result {
	return []Result{
		CheckInputDir(inputDir),
		CheckFrameExtension(extension),
		CheckOutputDir(outputPath),
	}
}

// FirstFailure converts the first failed result into an input error.
func FirstFailure(results []Result) error {
	for _, r := range results {
		if r.Passed {
			continue
		}
		return services.Wrap(
			services.ErrInput,
			"preflight",
			r.Name,
			fmt.Sprintf("%s check failed: %s", r.Name, r.Detail),
			nil,
		)
	}
	return nil
}
