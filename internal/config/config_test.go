package config

import (
	"testing"
)

// TestDefaultConfig verifies that DefaultConfig returns expected values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log_level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Verbose {
		t.Error("Expected verbose to be false")
	}

	if cfg.Decode.AdaptiveBlockSize != 25 {
		t.Errorf("Expected adaptive_block_size 25, got %d", cfg.Decode.AdaptiveBlockSize)
	}
	if cfg.Decode.AdaptiveBlockSizeAlt != 35 {
		t.Errorf("Expected adaptive_block_size_alt 35, got %d", cfg.Decode.AdaptiveBlockSizeAlt)
	}
	if cfg.Decode.MinContourVertices != 160 {
		t.Errorf("Expected min_contour_vertices 160, got %d", cfg.Decode.MinContourVertices)
	}
	if cfg.Decode.MinAspectRatio != 0.20 {
		t.Errorf("Expected min_aspect_ratio 0.20, got %f", cfg.Decode.MinAspectRatio)
	}
	if cfg.Decode.MaxRetryPolicies != 4 {
		t.Errorf("Expected max_retry_policies 4, got %d", cfg.Decode.MaxRetryPolicies)
	}
	if cfg.Decode.TryHarder {
		t.Error("Expected try_harder to be false by default")
	}

	if cfg.Output.Format != "text" {
		t.Errorf("Expected output format 'text', got %s", cfg.Output.Format)
	}

	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be disabled by default")
	}
	if cfg.Metrics.Addr != ":9105" {
		t.Errorf("Expected metrics addr ':9105', got %s", cfg.Metrics.Addr)
	}
}

// TestValidate_LogLevelAndFormat tests log level and output format validation.
func TestValidate_LogLevelAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		format    string
		wantError bool
	}{
		{"valid info/text", "info", "text", false},
		{"valid debug/json", "debug", "json", false},
		{"valid warn/csv", "warn", "csv", false},
		{"valid error", "error", "text", false},
		{"invalid log level", "invalid", "text", true},
		{"invalid format", "info", "xml", true},
		{"empty format is valid", "info", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogLevel = tt.logLevel
			cfg.Output.Format = tt.format

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

// TestValidate_Decode tests decode threshold and bound validation.
func TestValidate_Decode(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*Config)
		wantError bool
	}{
		{
			name:      "valid defaults",
			setup:     func(c *Config) {},
			wantError: false,
		},
		{
			name: "min_aspect_ratio too high",
			setup: func(c *Config) {
				c.Decode.MinAspectRatio = 1.5
			},
			wantError: true,
		},
		{
			name: "min_aspect_ratio negative",
			setup: func(c *Config) {
				c.Decode.MinAspectRatio = -0.1
			},
			wantError: true,
		},
		{
			name: "adaptive_block_size zero",
			setup: func(c *Config) {
				c.Decode.AdaptiveBlockSize = 0
			},
			wantError: true,
		},
		{
			name: "adaptive_block_size_alt negative",
			setup: func(c *Config) {
				c.Decode.AdaptiveBlockSizeAlt = -5
			},
			wantError: true,
		},
		{
			name: "min_contour_vertices zero",
			setup: func(c *Config) {
				c.Decode.MinContourVertices = 0
			},
			wantError: true,
		},
		{
			name: "max_retry_policies zero",
			setup: func(c *Config) {
				c.Decode.MaxRetryPolicies = 0
			},
			wantError: true,
		},
		{
			name: "max_retry_policies too high",
			setup: func(c *Config) {
				c.Decode.MaxRetryPolicies = 5
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.setup(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

// TestValidate_Metrics tests metrics address validation.
func TestValidate_Metrics(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		addr      string
		wantError bool
	}{
		{"disabled with empty addr", false, "", false},
		{"enabled with addr", true, ":9105", false},
		{"enabled without addr", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Metrics.Enabled = tt.enabled
			cfg.Metrics.Addr = tt.addr

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

// TestValidate tests the complete validation.
func TestValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() unexpected error: %v", err)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LogLevel = "invalid"
		cfg.Decode.AdaptiveBlockSize = 0
		cfg.Decode.MinAspectRatio = 2.0

		err := cfg.Validate()
		if err == nil {
			t.Error("Validate() expected error, got nil")
		}
	})
}

// TestToDecodeOptions tests conversion to datamatrix.Options.
func TestToDecodeOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decode.AdaptiveBlockSize = 30
	cfg.Decode.AdaptiveBlockSizeAlt = 40
	cfg.Decode.MinContourVertices = 200
	cfg.Decode.MinAspectRatio = 0.3

	opts := cfg.ToDecodeOptions()

	if opts.AdaptiveBlockSize != 30 {
		t.Errorf("Expected AdaptiveBlockSize 30, got %d", opts.AdaptiveBlockSize)
	}
	if opts.AdaptiveBlockSizeAlt != 40 {
		t.Errorf("Expected AdaptiveBlockSizeAlt 40, got %d", opts.AdaptiveBlockSizeAlt)
	}
	if opts.MinContourVertices != 200 {
		t.Errorf("Expected MinContourVertices 200, got %d", opts.MinContourVertices)
	}
	if opts.MinAspectRatio != 0.3 {
		t.Errorf("Expected MinAspectRatio 0.3, got %f", opts.MinAspectRatio)
	}
}

// TestToDecodeOptions_TryHarder tests that TryHarder widens acceptance thresholds.
func TestToDecodeOptions_TryHarder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decode.MinContourVertices = 160
	cfg.Decode.MinAspectRatio = 0.20
	cfg.Decode.TryHarder = true

	opts := cfg.ToDecodeOptions()

	if opts.MinContourVertices != 80 {
		t.Errorf("Expected MinContourVertices halved to 80, got %d", opts.MinContourVertices)
	}
	if opts.MinAspectRatio != 0.10 {
		t.Errorf("Expected MinAspectRatio halved to 0.10, got %f", opts.MinAspectRatio)
	}
}

// TestContains tests the contains helper.
func TestContains(t *testing.T) {
	slice := []string{"foo", "bar", "baz"}

	if !contains(slice, "foo") {
		t.Error("Expected 'foo' to be in slice")
	}
	if !contains(slice, "bar") {
		t.Error("Expected 'bar' to be in slice")
	}
	if contains(slice, "qux") {
		t.Error("Did not expect 'qux' to be in slice")
	}
	if contains([]string{}, "foo") {
		t.Error("Did not expect 'foo' in empty slice")
	}
}

// TestValidateThreshold tests the threshold validation helper.
func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		fieldName string
		wantError bool
	}{
		{"valid 0.0", 0.0, "test", false},
		{"valid 0.5", 0.5, "test", false},
		{"valid 1.0", 1.0, "test", false},
		{"invalid negative", -0.1, "test", true},
		{"invalid too high", 1.1, "test", true},
		{"invalid way too high", 10.0, "test", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateThreshold(tt.value, tt.fieldName)
			if (err != nil) != tt.wantError {
				t.Errorf("validateThreshold(%f) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
		})
	}
}
