// Package generator asks a language model for a chord quiz.
//
// Generators return the raw JSON text of the model response. The caller
// treats it as untrusted and runs it through quiz.Parse.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/vytor/chordflash/internal/config"
	"github.com/vytor/chordflash/internal/prompt"
)

// ErrEmptyCompletion is returned when the provider answers without content.
var ErrEmptyCompletion = errors.New("empty completion")

// Generator produces one chord quiz document per call.
type Generator interface {
	Name() string
	Generate(ctx context.Context, p prompt.Prompt) ([]byte, error)
}

// Ensure implementations satisfy the interface
var (
	_ Generator = (*OpenAIClient)(nil)
	_ Generator = (*GeminiClient)(nil)
	_ Generator = (*StaticGenerator)(nil)
)

// FromConfig builds the generator selected by cfg.Generator.
func FromConfig(ctx context.Context, cfg config.Config) (Generator, error) {
	switch cfg.Generator {
	case config.GeneratorOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.GeneratorTimeout,
		}), nil
	case config.GeneratorAzure:
		return NewOpenAIClient(OpenAIConfig{
			BaseURL:    cfg.AzureEndpoint,
			APIKey:     cfg.AzureAPIKey,
			Model:      cfg.AzureDeployment,
			APIVersion: cfg.AzureAPIVersion,
			Azure:      true,
			Timeout:    cfg.GeneratorTimeout,
		}), nil
	case config.GeneratorGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
	case config.GeneratorStatic:
		return LoadStaticGenerator(cfg.StaticQuizDir)
	default:
		return nil, fmt.Errorf("unknown generator %q", cfg.Generator)
	}
}
