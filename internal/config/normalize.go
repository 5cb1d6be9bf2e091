package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeSearch()
	if err := c.normalizeEncode(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeSearch() {
	c.Search.Extension = NormalizeExtension(c.Search.Extension)
	if c.Search.Extension == "" {
		c.Search.Extension = defaultExtension
	}
	c.Search.Metric = strings.ToLower(strings.TrimSpace(c.Search.Metric))
	if c.Search.Metric == "" {
		c.Search.Metric = defaultMetric
	}
}

func (c *Config) normalizeEncode() error {
	c.Encode.Format = strings.ToLower(strings.TrimSpace(c.Encode.Format))
	if c.Encode.Format == "" {
		c.Encode.Format = InferFormat(c.Encode.Output)
	}
	if strings.TrimSpace(c.Encode.Output) == "" {
		c.Encode.Output = defaultOutput
		if c.Encode.Format == FormatMJPEG {
			c.Encode.Output = "output.avi"
		}
	}
	var err error
	if c.Encode.Output, err = expandPath(strings.TrimSpace(c.Encode.Output)); err != nil {
		return fmt.Errorf("encode.output: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

// NormalizeExtension trims whitespace and a leading dot from a file extension filter.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.TrimSpace(ext), ".")
}

// InferFormat picks an output format from the output file name, defaulting to GIF.
func InferFormat(output string) string {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(output))) {
	case ".avi", ".mjpeg", ".mjpg":
		return FormatMJPEG
	default:
		return FormatGIF
	}
}

// OutputForFormat returns output with its extension swapped for the one that
// matches format. Names already matching format, and unknown formats, are
// returned unchanged.
func OutputForFormat(output, format string) string {
	var ext string
	switch format {
	case FormatGIF:
		ext = ".gif"
	case FormatMJPEG:
		ext = ".avi"
	default:
		return output
	}
	if InferFormat(output) == format && filepath.Ext(output) != "" {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + ext
}

// conflictingFormat reports the format implied by the output extension when it
// names a known format other than format.
func conflictingFormat(output, format string) (string, bool) {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".gif", ".avi", ".mjpeg", ".mjpg":
		implied := InferFormat(output)
		return implied, implied != format
	default:
		return "", false
	}
}
