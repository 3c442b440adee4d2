package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/yyyoichi/stegano_lsb"
	"github.com/yyyoichi/stegano_lsb/fidelity"
	"github.com/yyyoichi/stegano_lsb/internal/db"
)

// renderChart draws the mean PSNR of every channel set by bit depth, with the
// mean SSIM over all channel sets on a second axis.
func renderChart(stats []*db.ParameterStats, outputPath string) error {
	line := charts.NewLine()

	var xAxisData []string
	for depth := stegano.MinBitDepth; depth <= stegano.MaxBitDepth; depth++ {
		xAxisData = append(xAxisData, fmt.Sprintf("%d", depth))
	}

	type key struct {
		channels string
		depth    int
	}
	byKey := make(map[key]*db.ParameterStats, len(stats))
	for _, s := range stats {
		byKey[key{s.Channels, s.BitDepth}] = s
	}

	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Mean PSNR and SSIM by bit depth",
			Subtitle: fmt.Sprintf("PSNR below %.2f dB is Bad, above %.2f dB is Good", fidelity.PSNRLow, fidelity.PSNRHigh),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Bit depth",
			Type: "category",
			Data: xAxisData,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "PSNR (dB)",
			Type: "value",
			AxisLabel: &opts.AxisLabel{
				Formatter: "{value}",
			},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "5%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
	)
	line.SetXAxis(xAxisData)

	for _, channels := range stegano.Combinations() {
		var data []opts.LineData
		var found bool
		for depth := stegano.MinBitDepth; depth <= stegano.MaxBitDepth; depth++ {
			s, ok := byKey[key{channels.String(), depth}]
			if !ok || !s.AvgPSNR.Valid {
				// gap
				data = append(data, opts.LineData{Value: nil})
				continue
			}
			found = true
			name := fmt.Sprintf("%s depth %d: PSNR=%.3f (n=%d, %d identical excluded)",
				channels, depth, s.AvgPSNR.Float64, s.TotalTests-s.Identical, s.Identical)
			data = append(data, opts.LineData{
				Value: s.AvgPSNR.Float64,
				Name:  name,
			})
		}
		if !found {
			continue
		}
		line.AddSeries(channels.String(), data).
			SetSeriesOptions(
				charts.WithLineChartOpts(opts.LineChart{
					Smooth: opts.Bool(true),
				}),
				charts.WithLabelOpts(opts.Label{
					Show: opts.Bool(false),
				}),
			)
	}

	// Extend Y-axis for dual axis (must be done before adding the SSIM series)
	line.ExtendYAxis(opts.YAxis{
		Name: "SSIM",
		Type: "value",
		Max:  1.0,
		AxisLabel: &opts.AxisLabel{
			Formatter: "{value}",
		},
	})

	var ssimData []opts.LineData
	for depth := stegano.MinBitDepth; depth <= stegano.MaxBitDepth; depth++ {
		var sum float64
		var n int
		for _, s := range stats {
			if s.BitDepth == depth {
				sum += s.AvgSSIM * float64(s.TotalTests)
				n += s.TotalTests
			}
		}
		if n == 0 {
			ssimData = append(ssimData, opts.LineData{Value: nil})
			continue
		}
		ssimData = append(ssimData, opts.LineData{
			Value: sum / float64(n),
			Name:  fmt.Sprintf("depth %d: SSIM=%.4f (n=%d)", depth, sum/float64(n), n),
		})
	}
	line.AddSeries("SSIM", ssimData,
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			YAxisIndex: 1,
		}),
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
	)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}
