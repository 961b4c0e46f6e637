package config

import (
	"fmt"
	"strings"

	"github.com/go-dmtx/dmtx200/internal/datamatrix"
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if err := validateThreshold(c.Decode.MinAspectRatio, "decode.min_aspect_ratio"); err != nil {
		return err
	}
	if c.Decode.AdaptiveBlockSize <= 0 {
		return fmt.Errorf("invalid decode.adaptive_block_size: %d (must be positive)", c.Decode.AdaptiveBlockSize)
	}
	if c.Decode.AdaptiveBlockSizeAlt <= 0 {
		return fmt.Errorf("invalid decode.adaptive_block_size_alt: %d (must be positive)", c.Decode.AdaptiveBlockSizeAlt)
	}
	if c.Decode.MinContourVertices <= 0 {
		return fmt.Errorf("invalid decode.min_contour_vertices: %d (must be positive)", c.Decode.MinContourVertices)
	}
	if c.Decode.MaxRetryPolicies <= 0 || c.Decode.MaxRetryPolicies > 4 {
		return fmt.Errorf("invalid decode.max_retry_policies: %d (must be between 1 and 4)", c.Decode.MaxRetryPolicies)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr must be set when metrics.enabled is true")
	}

	return nil
}

// ToDecodeOptions converts the configuration to datamatrix.Options. The
// --try-harder flag widens the locator's acceptance thresholds rather than
// being its own field in datamatrix.Options, matching the teacher's pattern
// of folding a single boolean "try harder" flag into several underlying
// tunables (cmd/ocr's detector confidence/NMS widen together under similar
// flags).
func (c *Config) ToDecodeOptions() datamatrix.Options {
	opts := datamatrix.Options{
		AdaptiveBlockSize:    c.Decode.AdaptiveBlockSize,
		AdaptiveBlockSizeAlt: c.Decode.AdaptiveBlockSizeAlt,
		MinContourVertices:   c.Decode.MinContourVertices,
		MinAspectRatio:       c.Decode.MinAspectRatio,
	}
	if c.Decode.TryHarder {
		opts.MinContourVertices = opts.MinContourVertices / 2
		opts.MinAspectRatio = opts.MinAspectRatio / 2
	}
	return opts
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}
