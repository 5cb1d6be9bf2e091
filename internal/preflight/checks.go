package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"seamless/internal/imagecodec"
)

// CheckDirectoryAccess verifies that the directory exists and grants the
// requested unix access mode (R_OK, W_OK, X_OK bits).
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, describeMode(mode))}
}

// CheckInputDir verifies the frame directory can be listed and read.
func CheckInputDir(path string) Result {
	return CheckDirectoryAccess("Input directory", path, unix.R_OK|unix.X_OK)
}

// CheckOutputDir verifies the directory that will receive outputPath exists
// and is writable.
func CheckOutputDir(outputPath string) Result {
	dir := filepath.Dir(outputPath)
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return CheckDirectoryAccess("Output directory", dir, unix.W_OK|unix.X_OK)
}

// CheckFrameExtension verifies that frames with extension ext can be decoded.
func CheckFrameExtension(ext string) Result {
	if !imagecodec.SupportedExtension(ext) {
		return Result{Name: "Frame extension", Detail: fmt.Sprintf("%q (error: not a supported image format)", ext)}
	}
	return Result{Name: "Frame extension", Passed: true, Detail: fmt.Sprintf("%q (decodable)", ext)}
}

func describeMode(mode uint32) string {
	var parts []string
	if mode&unix.R_OK != 0 {
		parts = append(parts, "read")
	}
	if mode&unix.W_OK != 0 {
		parts = append(parts, "write")
	}
	if mode&unix.X_OK != 0 {
		parts = append(parts, "search")
	}
	return strings.Join(parts, "/")
}
