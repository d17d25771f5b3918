package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/chordflash/internal/diagram"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a ChordQuiz JSON document",
		Long: `Checks a ChordQuiz JSON document read from file or stdin. Keys whose
position disagrees with the keyboard table are listed as warnings; they do
not make the document invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuizArg(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %s (%d keys)\n", q.ChordName, len(q.Keys))
			for i, k := range q.Keys {
				if !diagram.Matches(k) {
					fmt.Fprintf(out, "warning: keys[%d] x=%d is_black=%t note=%s is not on the keyboard table\n",
						i, k.X, k.IsBlack, k.Note)
				}
			}
			return nil
		},
	}
}
