package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yyyoichi/stegano_lsb"
	"github.com/yyyoichi/stegano_lsb/fidelity"
	"github.com/yyyoichi/stegano_lsb/internal/db"
)

var (
	sweepFlags struct {
		Message string
		File    string
		OutDir  string
		DB      string
		BRISQUE string
		Resize  string
		Exact   bool
	}
)

var sweepCmd = &cobra.Command{
	Use:   "sweep IMAGE...",
	Short: "Encode every image with all channel sets and bit depths and store the measurements",
	Long: `For each image, each channel set (RGB, R, G, B, RG, RB, GB) and each bit depth
1-7 the message is encoded, decoded back, measured and classified. Encoded
images are written to --out as <name>_<channels>_<depth>.png and the results
are stored in the SQLite database given by --db. Use "stegano report" to
summarise them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(sweepFlags.Message, sweepFlags.File)
		if err != nil {
			return err
		}
		cfg := sweepConfig{
			Payload: payload,
			OutDir:  sweepFlags.OutDir,
			Scorer:  newScorer(sweepFlags.BRISQUE),
			Round:   !sweepFlags.Exact,
		}
		if sweepFlags.Resize != "" {
			if cfg.Width, cfg.Height, err = parseSize(sweepFlags.Resize); err != nil {
				return err
			}
		}
		if cfg.Scorer == nil {
			log.Warn().Msg("No BRISQUE scorer, results are stored without a verdict")
		}

		store, err := db.Open(sweepFlags.DB)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := runSweep(cmd.Context(), store, cfg, args)
		if err != nil {
			return err
		}
		log.Info().Int("results", n).Str("db", sweepFlags.DB).Msg("Sweep finished")
		return nil
	},
}

type sweepConfig struct {
	Payload []byte
	OutDir  string
	Scorer  fidelity.Scorer
	Round   bool
	// Width and Height resize every image when set.
	Width, Height int
}

func runSweep(ctx context.Context, store *db.DB, cfg sweepConfig, paths []string) (int, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create out dir: %w", err)
	}
	payloadID, err := store.InsertPayload(cfg.Payload)
	if err != nil {
		return 0, err
	}

	var total int
	for _, path := range paths {
		n, err := sweepImage(ctx, store, cfg, payloadID, path)
		total += n
		if err != nil {
			return total, fmt.Errorf("%s: %w", path, err)
		}
	}
	return total, nil
}

func sweepImage(ctx context.Context, store *db.DB, cfg sweepConfig, payloadID int64, path string) (int, error) {
	img, err := loadImage(path)
	if err != nil {
		return 0, err
	}
	var original image.Image = img
	if cfg.Width > 0 && cfg.Height > 0 {
		original = fitImage(img, cfg.Width, cfg.Height)
	}
	bounds := original.Bounds()

	imageID, err := store.InsertImage(path)
	if err != nil {
		return 0, err
	}
	sizeID, err := store.InsertImageSize(imageID, bounds.Dx(), bounds.Dy())
	if err != nil {
		return 0, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	batch := stegano.NewBatch(original)

	var n int
	for _, channels := range stegano.Combinations() {
		for depth := stegano.MinBitDepth; depth <= stegano.MaxBitDepth; depth++ {
			opts := []stegano.Option{stegano.WithBitDepth(depth), stegano.WithChannels(channels)}
			codec, err := stegano.New(opts...)
			if err != nil {
				return n, err
			}
			capacity := codec.Capacity(bounds)
			embedded := cfg.Payload[:min(len(cfg.Payload), capacity)]

			encoded, err := batch.Encode(ctx, stegano.Bytes(cfg.Payload), opts...)
			if err != nil {
				return n, err
			}
			encodedPath := filepath.Join(cfg.OutDir, fmt.Sprintf("%s_%s_%d.png", name, channels, depth))
			if err := saveImage(encodedPath, encoded); err != nil {
				return n, err
			}

			msg, err := stegano.Decode(ctx, encoded, opts...)
			if err != nil {
				return n, err
			}
			recovered := msg.Terminated() && bytes.Equal(msg.Bytes(), embedded)

			m, err := fidelity.Measure(ctx, original, encoded, fidelity.MeasureOptions{Scorer: cfg.Scorer, Round: cfg.Round})
			if err != nil {
				return n, err
			}

			paramID, err := store.InsertCodecParam(depth, channels.String())
			if err != nil {
				return n, err
			}
			result := &db.Result{
				ImageSizeID:       sizeID,
				PayloadID:         payloadID,
				CodecParamID:      paramID,
				OriginalImagePath: path,
				EncodedImagePath:  encodedPath,
				Capacity:          capacity,
				Embedded:          len(embedded),
				Recovered:         recovered,
				MSE:               m.MSE,
				PSNR:              db.NullFloat(m.PSNR),
				SSIM:              m.SSIM,
				EntropyOriginal:   m.Entropy.Original,
				EntropyEncoded:    m.Entropy.Encoded,
			}

			event, status := log.Info(), "[OK]"
			if !recovered {
				event, status = log.Warn(), "[FAIL]"
			}
			if m.HasBRISQUE() {
				report, err := fidelity.Evaluate(m)
				if err != nil {
					return n, err
				}
				bits := report.Bits()
				result.BRISQUEOriginal = db.NullFloat(m.BRISQUE.Original)
				result.BRISQUEEncoded = db.NullFloat(m.BRISQUE.Encoded)
				result.PerceptibleBits = sql.NullInt64{Int64: db.BitsToMask(bits[:]), Valid: true}
				result.Verdict = sql.NullString{String: report.Verdict.String(), Valid: true}
				event = event.Stringer("verdict", report.Verdict)
			}
			if _, err := store.InsertResult(result); err != nil {
				return n, err
			}
			n++

			event.
				Str("image", name).
				Stringer("channels", channels).
				Int("depth", depth).
				Int("embedded", len(embedded)).
				Float64("mse", m.MSE).
				Float64("ssim", m.SSIM).
				Msg(status)
		}
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepFlags.Message, "message", "m", "", "Message to hide")
	sweepCmd.Flags().StringVarP(&sweepFlags.File, "file", "f", "", "Read the message from a file")
	sweepCmd.MarkFlagsMutuallyExclusive("message", "file")
	sweepCmd.MarkFlagsOneRequired("message", "file")
	sweepCmd.Flags().StringVar(&sweepFlags.OutDir, "out", "encoded", "Directory for the encoded images")
	sweepCmd.Flags().StringVar(&sweepFlags.DB, "db", "stegano.db", "SQLite database for the results")
	sweepCmd.Flags().StringVar(&sweepFlags.BRISQUE, "brisque", "", "Command printing the BRISQUE score of an image")
	sweepCmd.Flags().StringVar(&sweepFlags.Resize, "resize", "", "Crop and scale every image to WxH first, e.g. 400x400")
	sweepCmd.Flags().BoolVar(&sweepFlags.Exact, "exact", false, "Classify unrounded values instead of rounding to three decimals")
}
