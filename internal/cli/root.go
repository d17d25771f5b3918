// Package cli implements the chordquiz command, an offline companion to the
// web server for checking, drawing and generating chord quizzes.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/quiz"
)

// NewRootCmd builds the chordquiz command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "chordquiz",
		Short: "Validate, draw and generate piano chord quizzes",
		Long: `chordquiz works on ChordQuiz JSON documents: it checks them against the
quiz contract, draws the two-octave keyboard diagram, exports the chord as
MIDI and asks the configured generator for new quizzes.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.New(
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithLevel(logger.ParseLevel(logLevel)),
				logger.WithPrefix("chordquiz"),
			))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")

	root.AddCommand(newValidateCmd(), newRenderCmd(), newMIDICmd(), newGenerateCmd())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// readQuizArg reads and validates the quiz named by args, or stdin when no
// file or "-" is given.
func readQuizArg(cmd *cobra.Command, args []string) (models.ChordQuiz, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return models.ChordQuiz{}, fmt.Errorf("read quiz: %w", err)
	}
	return quiz.Parse(data)
}

// openOutput returns the file named by path, or the command's stdout.
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
