package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vytor/chordflash/internal/config"
	"github.com/vytor/chordflash/internal/generator"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/prompt"
	"github.com/vytor/chordflash/internal/services"
)

func newGenerateCmd() *cobra.Command {
	var (
		backend   string
		staticDir string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the configured generator for validated quizzes",
		Long: `Calls the generator selected by GENERATOR (or --generator) with the
prompt asset and prints each validated quiz as JSON. Output that does not
match the quiz contract is reported as an error, never repaired.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if backend != "" {
				cfg.Generator = backend
			}
			if staticDir != "" {
				cfg.StaticQuizDir = staticDir
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			p, err := prompt.Load(cfg.PromptPath)
			if err != nil {
				return err
			}
			gen, err := generator.FromConfig(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			logger.Default().Info("generating %d quiz(zes) with %s using prompt %s", count, gen.Name(), p.ID())

			svc := services.NewGenerationService(gen, p, cfg.GeneratorTimeout)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for i := 0; i < count; i++ {
				q, err := svc.GenerateQuiz(cmd.Context())
				if err != nil {
					return err
				}
				if err := enc.Encode(q); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "generator", "", "generator backend: openai, azure, gemini or static")
	cmd.Flags().StringVar(&staticDir, "static-dir", "", "directory of canned quizzes for the static generator")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of quizzes to generate")
	return cmd
}
