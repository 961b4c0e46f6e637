package cmd

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-dmtx/dmtx200/internal/datamatrix"
	"github.com/go-dmtx/dmtx200/internal/metrics"
	"github.com/go-dmtx/dmtx200/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// decodeCmd represents the decode command.
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode Data Matrix (ECC200) symbols from images",
	Long: `Decode one or more image files for ECC200 Data Matrix symbols.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  dmtx200 decode label.png
  dmtx200 decode *.png --format json
  dmtx200 decode --try-harder scan.jpg --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
			return cmd.Help()
		}
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		outputFile := cfg.Output.File

		validFormats := []string{outputFormatText, outputFormatJSON, outputFormatCSV}
		isValidFormat := false
		for _, f := range validFormats {
			if format == f {
				isValidFormat = true
				break
			}
		}
		if !isValidFormat {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
		}

		opts := cfg.ToDecodeOptions()

		cons := utils.DefaultImageConstraints()
		var outputs []string
		for _, pth := range args {
			if !utils.IsSupportedImage(pth) {
				return fmt.Errorf("unsupported image format: %s", pth)
			}
			img, meta, err := utils.LoadImage(pth)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", pth, err)
			}
			if err := utils.ValidateImageConstraints(img, cons); err != nil {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "warning: %s: %v", pth, err); err != nil {
					return fmt.Errorf("failed to write warning to stdout: %w", err)
				}
			}

			start := time.Now()
			results, err := datamatrix.Decode(img, opts)
			metrics.DecodeSeconds.Observe(time.Since(start).Seconds())
			recordDecodeMetrics(results, err)
			if err != nil && !errors.Is(err, datamatrix.ErrNotFound) {
				return fmt.Errorf("decode failed for %s: %w", pth, err)
			}

			s, err := formatResults(meta.Path, results, format, len(args) > 1)
			if err != nil {
				return fmt.Errorf("format %s failed: %w", format, err)
			}
			outputs = append(outputs, s)
		}

		final := strings.Join(outputs, "")
		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(final), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s", outputFile); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), final); err != nil {
				return fmt.Errorf("failed to write final output: %w", err)
			}
		}
		return nil
	},
}

// recordDecodeMetrics labels one Decode call's outcome for every candidate
// that produced a result, plus the not-found case, on the dmtx_decode_total
// and dmtx_retry_policy_total counters.
func recordDecodeMetrics(results []datamatrix.Result, err error) {
	if errors.Is(err, datamatrix.ErrNotFound) {
		metrics.DecodeTotal.WithLabelValues(metrics.ResultNotFound).Inc()
		return
	}
	for _, r := range results {
		metrics.RetryPolicyTotal.WithLabelValues(strconv.Itoa(r.Policy)).Inc()
		if r.Repaired {
			metrics.DecodeTotal.WithLabelValues(metrics.ResultRepaired).Inc()
		} else {
			metrics.DecodeTotal.WithLabelValues(metrics.ResultOK).Inc()
		}
	}
}

// jsonResult is the wire shape of one decoded symbol in --format json output.
type jsonResult struct {
	Text     string `json:"text"`
	Macro    int    `json:"macro,omitempty"`
	ECI      *int   `json:"eci,omitempty"`
	Policy   int    `json:"policy"`
	Repaired bool   `json:"repaired"`
}

func formatResults(path string, results []datamatrix.Result, format string, multi bool) (string, error) {
	switch format {
	case outputFormatJSON:
		items := make([]jsonResult, 0, len(results))
		for _, r := range results {
			items = append(items, jsonResult{
				Text:     string(r.Bytes),
				Macro:    r.Macro,
				ECI:      r.ECI,
				Policy:   r.Policy,
				Repaired: r.Repaired,
			})
		}
		obj := struct {
			File    string       `json:"file"`
			Results []jsonResult `json:"results"`
		}{File: path, Results: items}
		bts, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(bts), nil
	case outputFormatCSV:
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		if multi {
			if err := w.Write([]string{"file", "text", "macro", "policy", "repaired"}); err != nil {
				return "", err
			}
		} else {
			if err := w.Write([]string{"text", "macro", "policy", "repaired"}); err != nil {
				return "", err
			}
		}
		for _, r := range results {
			row := []string{string(r.Bytes), strconv.Itoa(r.Macro), strconv.Itoa(r.Policy), strconv.FormatBool(r.Repaired)}
			if multi {
				row = append([]string{path}, row...)
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", err
		}
		return sb.String(), nil
	default:
		var sb strings.Builder
		if len(results) == 0 {
			fmt.Fprintf(&sb, "%s: no symbol decoded\n", path)
			return sb.String(), nil
		}
		for _, r := range results {
			fmt.Fprintf(&sb, "%s: %s", path, string(r.Bytes))
			if r.Repaired {
				sb.WriteString(" (repaired)")
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil
	}
}

func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().Bool("try-harder", false, "widen acceptance thresholds and retry more aggressively")
	cmd.Flags().Int("adaptive-block", 25, "adaptive threshold block size")
	cmd.Flags().Int("adaptive-block-alt", 35, "secondary adaptive threshold block size for the retry ladder")
	cmd.Flags().Int("min-contour-vertices", 160, "minimum contour vertex count accepted by the locator")
	cmd.Flags().Float64("min-aspect-ratio", 0.20, "minimum bounding-box aspect ratio accepted by the locator")
	cmd.Flags().Int("max-retry-policies", 4, "retry policies setting (1..4); validated but not applied: every decode runs the full retry ladder")
}

func bindDecodeFlags(cmd *cobra.Command) {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"output.format", "format"},
		{"output.file", "output"},
		{"decode.try_harder", "try-harder"},
		{"decode.adaptive_block_size", "adaptive-block"},
		{"decode.adaptive_block_size_alt", "adaptive-block-alt"},
		{"decode.min_contour_vertices", "min-contour-vertices"},
		{"decode.min_aspect_ratio", "min-aspect-ratio"},
		{"decode.max_retry_policies", "max-retry-policies"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, cmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	addDecodeFlags(decodeCmd)
	bindDecodeFlags(decodeCmd)

	decodeCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintln(out, cmd.Short); err != nil {
			return
		}
		if _, err := fmt.Fprintln(out, "Usage:"); err != nil {
			return
		}
		_, _ = fmt.Fprintln(out, cmd.UseLine())
		_, _ = fmt.Fprintln(out, "Flags:")
		_, _ = fmt.Fprintln(out, cmd.Flags().FlagUsages())
	})
}

// GetDecodeCommand returns the decode command for testing purposes.
func GetDecodeCommand() *cobra.Command {
	return decodeCmd
}
