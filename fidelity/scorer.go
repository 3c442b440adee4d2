package fidelity

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
)

var ErrNoScore = errors.New("no score in scorer output")

// Scorer computes a no-reference quality score for one image.
// It is how BRISQUE values enter Measure.
type Scorer interface {
	Score(ctx context.Context, img image.Image) (float64, error)
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(ctx context.Context, img image.Image) (float64, error)

func (f ScorerFunc) Score(ctx context.Context, img image.Image) (float64, error) {
	return f(ctx, img)
}

// CommandScorer scores an image by running an external program.
//
// The image is written to a temporary PNG whose path is appended to Args.
// The last token of standard output that parses as a float is the score,
// e.g. a script printing "brisque: 23.41" yields 23.41.
type CommandScorer struct {
	Name string
	Args []string
}

func (s CommandScorer) Score(ctx context.Context, img image.Image) (float64, error) {
	f, err := os.CreateTemp("", "score-*.png")
	if err != nil {
		return 0, err
	}
	defer os.Remove(f.Name())

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to write image for %s: %w", s.Name, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, s.Name, append(slices.Clone(s.Args), f.Name())...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%s error: %w, output: %s", s.Name, err, stderr.String())
	}
	return parseScore(string(output))
}

func parseScore(output string) (float64, error) {
	fields := strings.FieldsFunc(output, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ':' || r == '=' || r == ','
	})
	for _, field := range slices.Backward(fields) {
		if v, err := strconv.ParseFloat(field, 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNoScore, strings.TrimSpace(output))
}
