package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yyyoichi/stegano_lsb/internal/db"
)

var (
	reportFlags struct {
		DB      string
		HTML    string
		Verdict string
	}
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise sweep results",
	Long: `Prints averages and verdict counts per channel set and bit depth from the
database written by "stegano sweep". --html also renders a chart of the mean
PSNR and SSIM by bit depth. --verdict lists the individual results with that
verdict instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := db.Open(reportFlags.DB)
		if err != nil {
			return err
		}
		defer store.Close()

		if reportFlags.Verdict != "" {
			results, err := store.GetResultsByVerdict(reportFlags.Verdict)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), results)
		}

		stats, err := store.GetParameterStats()
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			log.Warn().Str("db", reportFlags.DB).Msg("No results, run sweep first")
			return nil
		}
		if err := printStats(cmd.OutOrStdout(), stats); err != nil {
			return err
		}
		if reportFlags.HTML != "" {
			if err := renderChart(stats, reportFlags.HTML); err != nil {
				return fmt.Errorf("failed to render chart: %w", err)
			}
			log.Info().Str("path", reportFlags.HTML).Msg("Chart saved")
		}
		return nil
	},
}

func printStats(w io.Writer, stats []*db.ParameterStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "channels\tdepth\ttests\trecovered\tMSE\tPSNR*\tidentical\tSSIM\tentropy Δ\tgood\tuncertain\tbad\t")
	for _, s := range stats {
		psnr := "inf"
		if s.AvgPSNR.Valid {
			psnr = fmt.Sprintf("%.3f", s.AvgPSNR.Float64)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t%s\t%d\t%.4f\t%.4f\t%d\t%d\t%d\t\n",
			s.Channels, s.BitDepth, s.TotalTests, s.Recovered,
			s.AvgMSE, psnr, s.Identical, s.AvgSSIM, s.AvgEntropyDelta,
			s.Good, s.Uncertain, s.Bad)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "* mean over pairs that differ; identical pairs have infinite PSNR")
	return err
}

func printResults(w io.Writer, results []*db.DetailedResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "image\tsize\tchannels\tdepth\tembedded\tMSE\tSSIM\tverdict\tencoded\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%dx%d\t%s\t%d\t%d/%d\t%.3f\t%.4f\t%s\t%s\t\n",
			r.ImageURI, r.Width, r.Height, r.Channels, r.BitDepth,
			r.Embedded, r.PayloadSize, r.MSE, r.SSIM, r.Verdict.String, r.EncodedImagePath)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFlags.DB, "db", "stegano.db", "SQLite database written by sweep")
	reportCmd.Flags().StringVar(&reportFlags.HTML, "html", "", "Write an HTML chart to this path")
	reportCmd.Flags().StringVar(&reportFlags.Verdict, "verdict", "", "List results with this verdict (Good, Uncertain, Bad)")
}
