package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/chordflash/internal/diagram"
	"github.com/vytor/chordflash/internal/midiexport"
)

func newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the keyboard diagram of a quiz as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuizArg(cmd, args)
			if err != nil {
				return err
			}

			w, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			img := diagram.Render(q)
			if err := img.WriteSVG(w); err != nil {
				w.Close()
				return fmt.Errorf("write svg: %w", err)
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the SVG to this file instead of stdout")
	return cmd
}

func newMIDICmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "midi [file]",
		Short: "Export the chord of a quiz as a Standard MIDI File",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuizArg(cmd, args)
			if err != nil {
				return err
			}

			w, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := midiexport.Write(w, q); err != nil {
				w.Close()
				return fmt.Errorf("write midi: %w", err)
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the MIDI file here instead of stdout")
	return cmd
}
