package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yyyoichi/stegano_lsb/fidelity"
)

var (
	analyzeFlags struct {
		Original string
		Encoded  string
		Heatmap  string
		BRISQUE  string
		Exact    bool
	}
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Judge how visible the change between an original and an encoded image is",
	Long: `Computes MSE, PSNR, SSIM, the entropy delta and, with --brisque, the BRISQUE
delta, classifies each as Good, Warn or Bad and prints the verdict:
fewer than three perceptible metrics is Good, exactly three is Uncertain,
more is Bad.

BRISQUE is computed by an external program given with --brisque. It is run
with a PNG path as its last argument and must print the score.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		original, err := loadImage(analyzeFlags.Original)
		if err != nil {
			return err
		}
		encoded, err := loadImage(analyzeFlags.Encoded)
		if err != nil {
			return err
		}

		m, err := fidelity.Measure(cmd.Context(), original, encoded, fidelity.MeasureOptions{
			Scorer: newScorer(analyzeFlags.BRISQUE),
			Round:  !analyzeFlags.Exact,
		})
		if err != nil {
			return err
		}
		if err := printAnalysis(cmd.OutOrStdout(), m); err != nil {
			return err
		}

		if analyzeFlags.Heatmap != "" {
			hm, changed, err := heatmap(original, encoded)
			if err != nil {
				return err
			}
			if err := saveImage(analyzeFlags.Heatmap, hm); err != nil {
				return err
			}
			log.Info().Str("path", analyzeFlags.Heatmap).Int("changed", changed).Msg("Heatmap saved")
		}
		return nil
	},
}

// newScorer splits a command line such as "python3 brisque.py".
func newScorer(command string) fidelity.Scorer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	return fidelity.CommandScorer{Name: fields[0], Args: fields[1:]}
}

func formatValue(metric fidelity.Metric, v float64) string {
	if metric == fidelity.MetricPSNR && math.IsInf(v, 1) {
		return "inf (identical)"
	}
	if metric == fidelity.MetricPSNR {
		return fmt.Sprintf("%.3f dB", v)
	}
	return fmt.Sprintf("%.4f", v)
}

func printAnalysis(w io.Writer, m fidelity.Metrics) error {
	fmt.Fprintf(w, "Analysis Complete:\n")
	fmt.Fprintf(w, "------------------\n")

	if !m.HasBRISQUE() {
		values := map[fidelity.Metric]float64{
			fidelity.MetricMSE:     m.MSE,
			fidelity.MetricPSNR:    m.PSNR,
			fidelity.MetricSSIM:    m.SSIM,
			fidelity.MetricEntropy: m.Entropy.Delta(),
		}
		for _, metric := range fidelity.AllMetrics() {
			v, ok := values[metric]
			if !ok {
				fmt.Fprintf(w, "%-8s %18s  %s\n", metric, "-", "not scored")
				continue
			}
			r, err := fidelity.Classify(metric, v)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-8s %18s  %s\n", metric, formatValue(metric, v), r.Tier)
		}
		fmt.Fprintf(w, "\nVerdict: n/a (needs a BRISQUE scorer)\n")
		return nil
	}

	report, err := fidelity.Evaluate(m)
	if err != nil {
		return err
	}
	var perceptible int
	for _, r := range report.Results {
		fmt.Fprintf(w, "%-8s %18s  %s\n", r.Metric, formatValue(r.Metric, r.Value), r.Tier)
		perceptible += r.Bit
	}
	fmt.Fprintf(w, "\nVerdict: %s (%d of %d metrics perceptible)\n", report.Verdict, perceptible, fidelity.NumMetrics)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.Original, "original", "o", "", "Path to original image (required)")
	analyzeCmd.MarkFlagRequired("original")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Encoded, "encoded", "e", "", "Path to encoded image (required)")
	analyzeCmd.MarkFlagRequired("encoded")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.Heatmap, "heatmap", "d", "", "Output path for the difference heatmap image")
	analyzeCmd.Flags().StringVar(&analyzeFlags.BRISQUE, "brisque", "", "Command printing the BRISQUE score of an image")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.Exact, "exact", false, "Classify unrounded values instead of rounding to three decimals")
}
