//nolint:lll
package config

// Config represents the complete configuration for the dmtx200 decoder.
// It supports loading from configuration files, environment variables, and
// command-line flags, narrowed from the teacher's OCR-pipeline-centric
// struct to the Data Matrix decode domain (SPEC_FULL section 4).
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Decode  DecodeConfig  `mapstructure:"decode" yaml:"decode" json:"decode"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output" json:"output"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// DecodeConfig controls the Image Conditioner's retry ladder and the
// Symbol Locator's acceptance thresholds (spec.md section 4.1/section 9).
type DecodeConfig struct {
	AdaptiveBlockSize    int     `mapstructure:"adaptive_block_size" yaml:"adaptive_block_size" json:"adaptive_block_size"`
	AdaptiveBlockSizeAlt int     `mapstructure:"adaptive_block_size_alt" yaml:"adaptive_block_size_alt" json:"adaptive_block_size_alt"`
	MinContourVertices   int     `mapstructure:"min_contour_vertices" yaml:"min_contour_vertices" json:"min_contour_vertices"`
	MinAspectRatio       float64 `mapstructure:"min_aspect_ratio" yaml:"min_aspect_ratio" json:"min_aspect_ratio"`
	MaxRetryPolicies     int     `mapstructure:"max_retry_policies" yaml:"max_retry_policies" json:"max_retry_policies"`
	TryHarder            bool    `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
}

// OutputConfig contains output formatting settings, narrowed from the
// teacher's OutputConfig (overlay rendering dropped: there is no detection
// box to draw over, only a decoded byte payload and its source quadrilateral).
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// MetricsConfig controls the bare Prometheus exporter (SPEC_FULL section 5).
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Decode: DecodeConfig{
			AdaptiveBlockSize:    25,
			AdaptiveBlockSizeAlt: 35,
			MinContourVertices:   160,
			MinAspectRatio:       0.20,
			MaxRetryPolicies:     4,
			TryHarder:            false,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9105",
		},
	}
}
