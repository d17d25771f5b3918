package services

import (
	"context"
	"time"

	"github.com/vytor/chordflash/internal/errors"
	"github.com/vytor/chordflash/internal/generator"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/prompt"
	"github.com/vytor/chordflash/internal/quiz"
)

// GenerationService asks the configured generator for a quiz and validates
// the answer.
type GenerationService interface {
	Provider() string
	GenerateQuiz(ctx context.Context) (models.ChordQuiz, error)
}

type generationService struct {
	gen     generator.Generator
	prompt  prompt.Prompt
	timeout time.Duration
}

// NewGenerationService creates a new GenerationService. A zero timeout
// leaves the caller's deadline in charge.
func NewGenerationService(gen generator.Generator, p prompt.Prompt, timeout time.Duration) GenerationService {
	return &generationService{gen: gen, prompt: p, timeout: timeout}
}

func (s *generationService) Provider() string {
	return s.gen.Name()
}

func (s *generationService) GenerateQuiz(ctx context.Context) (models.ChordQuiz, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"provider": s.gen.Name(),
		"prompt":   s.prompt.ID(),
	})

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.gen.Generate(ctx, s.prompt)
	if err != nil {
		log.Error("generator call failed after %v: %v", time.Since(start), err)
		return models.ChordQuiz{}, errors.NewTransportError(s.gen.Name(), err)
	}

	q, err := quiz.Parse(raw)
	if err != nil {
		log.Warn("generator returned an invalid quiz: %v", err)
		return models.ChordQuiz{}, errors.NewSchemaValidationError(err)
	}

	log.Info("generated quiz %q with %d keys in %v", q.ChordName, len(q.Keys), time.Since(start))
	return q, nil
}
