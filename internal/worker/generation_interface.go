package worker

import (
	"context"

	"github.com/vytor/chordflash/internal/models"
)

// GenerationServiceInterface produces validated quizzes for background jobs.
type GenerationServiceInterface interface {
	Provider() string
	GenerateQuiz(ctx context.Context) (models.ChordQuiz, error)
}

// PrefetchStore receives quizzes generated ahead of time.
type PrefetchStore interface {
	Push(ctx context.Context, provider string, quiz models.ChordQuiz) (int64, error)
}
