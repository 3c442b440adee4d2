package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yyyoichi/stegano_lsb"
)

var (
	decodeFlags struct {
		Input    string
		Output   string
		Depth    int
		Channels string
	}
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Recover a hidden message",
	Long: `Reads the lowest --depth bits of the --channels until the "=====" terminator.
Wrong parameters do not fail: they produce unrelated bytes. Without a
terminator everything read is returned and a warning is logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadImage(decodeFlags.Input)
		if err != nil {
			return err
		}
		msg, err := stegano.Decode(cmd.Context(), img,
			stegano.WithBitDepth(decodeFlags.Depth),
			stegano.WithChannelString(decodeFlags.Channels),
		)
		if err != nil {
			return err
		}
		if !msg.Terminated() {
			log.Warn().Int("bytes", len(msg.Bytes())).Msg("Terminator not found, output is best effort")
		}
		log.Debug().Int("bytes", len(msg.Bytes())).Msg("Decoded")

		if decodeFlags.Output != "" {
			return os.WriteFile(decodeFlags.Output, msg.Bytes(), 0o644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeFlags.Input, "input", "i", "", "Path to the encoded image (required)")
	decodeCmd.MarkFlagRequired("input")
	decodeCmd.Flags().StringVarP(&decodeFlags.Output, "output", "o", "", "Write the message to a file instead of stdout")
	decodeCmd.Flags().IntVarP(&decodeFlags.Depth, "depth", "n", stegano.MinBitDepth, "Low bits used per channel (1-7)")
	decodeCmd.Flags().StringVarP(&decodeFlags.Channels, "channels", "c", "RGB", "Channels to read, any of R, G, B")
}
