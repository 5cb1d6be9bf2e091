package config

const (
	defaultConfigPath         = "~/.config/seamless/config.toml"
	defaultExtension          = "png"
	defaultDurationImportance = 0.5
	defaultMetric             = MetricNormalizedEuclidean
	defaultFormat             = FormatGIF
	defaultOutput             = "output.gif"
	defaultFPS                = 24
	defaultQuality            = 90
	defaultHistoryPath        = "~/.local/share/seamless/history.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Supported output formats.
const (
	FormatGIF   = "gif"
	FormatMJPEG = "mjpeg"
)

// MetricNormalizedEuclidean is the only pixel metric usable by the loop search.
const MetricNormalizedEuclidean = "normalized-euclidean"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Search: Search{
			Extension:          defaultExtension,
			DurationImportance: defaultDurationImportance,
			Metric:             defaultMetric,
		},
		Encode: Encode{
			Format:  defaultFormat,
			Output:  defaultOutput,
			FPS:     defaultFPS,
			Quality: defaultQuality,
			Dither:  true,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
