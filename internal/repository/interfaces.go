package repository

import (
	"context"

	"github.com/vytor/chordflash/internal/models"
)

// SessionRepository handles per-browser presentation state
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Create(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session models.Session) error
}

// RoundRepository handles quiz round data access
type RoundRepository interface {
	Insert(ctx context.Context, round models.QuizRound) (*models.QuizRound, error)
	Get(ctx context.Context, id int64) (*models.QuizRound, error)
	List(ctx context.Context, filter models.RoundFilter) ([]models.QuizRound, error)
	Count(ctx context.Context, filter models.RoundFilter) (int, error)
	ChordCounts(ctx context.Context, sessionID string, limit int) ([]models.ChordCount, error)
}

// PrefetchRepository stores validated quizzes generated ahead of time.
// Pop returns nil when the queue is empty.
type PrefetchRepository interface {
	Push(ctx context.Context, provider string, quiz models.ChordQuiz) (int64, error)
	Pop(ctx context.Context) (*models.PrefetchedQuiz, error)
	Count(ctx context.Context) (int, error)
}
