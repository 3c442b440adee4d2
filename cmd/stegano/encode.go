package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yyyoichi/stegano_lsb"
)

var (
	encodeFlags struct {
		Input    string
		Output   string
		Message  string
		File     string
		Depth    int
		Channels string
	}
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Hide a message in an image",
	Long: `Writes the message into the lowest --depth bits of the --channels of every
pixel, row by row, followed by the "=====" terminator. A message longer than
the capacity is truncated. The terminator is not escaped: a message ending in
"=" or containing "=====" decodes only up to that point, and a warning is
logged. The output must be a lossless format (png, bmp, tiff).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(encodeFlags.Message, encodeFlags.File)
		if err != nil {
			return err
		}
		img, err := loadImage(encodeFlags.Input)
		if err != nil {
			return err
		}
		codec, err := stegano.New(
			stegano.WithBitDepth(encodeFlags.Depth),
			stegano.WithChannelString(encodeFlags.Channels),
		)
		if err != nil {
			return err
		}

		capacity := codec.Capacity(img.Bounds())
		log.Info().
			Int("capacity", capacity).
			Int("depth", codec.BitDepth()).
			Stringer("channels", codec.Channels()).
			Msg("Maximum bytes to encode")
		if len(payload) > capacity {
			log.Warn().Int("size", len(payload)).Int("kept", capacity).Msg("Message truncated")
		}
		if kept, n := min(len(payload), capacity), recoverable(payload, capacity); n < kept {
			log.Warn().
				Int("size", kept).
				Int("recoverable", n).
				Msgf("Message ends early at a %q terminator, decoding will return the first %d bytes", stegano.Terminator, n)
		}

		encoded, err := codec.Encode(cmd.Context(), img, stegano.Bytes(payload))
		if err != nil {
			return err
		}
		if err := saveImage(encodeFlags.Output, encoded); err != nil {
			return err
		}
		log.Info().Str("output", encodeFlags.Output).Msg("Encoded")
		return nil
	},
}

// recoverable returns how many bytes of payload decode back from an image
// holding capacity bytes.
func recoverable(payload []byte, capacity int) int {
	return stegano.Recoverable(stegano.Bytes(payload[:min(len(payload), max(capacity, 0))]))
}

// readPayload returns the message given inline or read from a file.
func readPayload(message, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return []byte(message), nil
}

func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().StringVarP(&encodeFlags.Input, "input", "i", "", "Path to the cover image (required)")
	encodeCmd.MarkFlagRequired("input")
	encodeCmd.Flags().StringVarP(&encodeFlags.Output, "output", "o", "", "Path of the encoded image (required)")
	encodeCmd.MarkFlagRequired("output")
	encodeCmd.Flags().StringVarP(&encodeFlags.Message, "message", "m", "", "Message to hide")
	encodeCmd.Flags().StringVarP(&encodeFlags.File, "file", "f", "", "Read the message from a file")
	encodeCmd.MarkFlagsMutuallyExclusive("message", "file")
	encodeCmd.MarkFlagsOneRequired("message", "file")
	encodeCmd.Flags().IntVarP(&encodeFlags.Depth, "depth", "n", stegano.MinBitDepth, "Low bits used per channel (1-7)")
	encodeCmd.Flags().StringVarP(&encodeFlags.Channels, "channels", "c", "RGB", "Channels to write, any of R, G, B")
}
