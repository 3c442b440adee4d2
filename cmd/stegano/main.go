package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "stegano",
	Short: "Hide text in the low bits of an image and judge how visible it is",
	Long: `stegano writes a payload into the least significant bits of the selected
colour channels of an image and reads it back. The bit depth and channels are
not stored in the image; decode needs the values used at encode time.

The analyze, sweep and report commands measure how perceptible the change is
(MSE, PSNR, SSIM, entropy and BRISQUE) and classify it as Good, Uncertain or Bad.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
