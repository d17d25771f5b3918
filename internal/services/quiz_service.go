package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/chordflash/internal/errors"
	"github.com/vytor/chordflash/internal/jobs"
	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/repository"
)

// QuizService handles quiz rounds
type QuizService interface {
	NewRound(ctx context.Context, sessionID string) (*models.QuizRound, error)
	GetRound(ctx context.Context, id int64) (*models.QuizRound, error)
	History(ctx context.Context, filter models.RoundFilter) ([]models.QuizRound, int, error)
	ChordCounts(ctx context.Context, sessionID string) ([]models.ChordCount, error)
}

type quizService struct {
	generation   GenerationService
	roundRepo    repository.RoundRepository
	prefetchRepo repository.PrefetchRepository
	jobQueue     jobs.JobQueue
}

// NewQuizService creates a new QuizService. prefetchRepo and jobQueue may be
// nil, in which case every round waits for the generator.
func NewQuizService(
	generation GenerationService,
	roundRepo repository.RoundRepository,
	prefetchRepo repository.PrefetchRepository,
	jobQueue jobs.JobQueue,
) QuizService {
	return &quizService{
		generation:   generation,
		roundRepo:    roundRepo,
		prefetchRepo: prefetchRepo,
		jobQueue:     jobQueue,
	}
}

// NewRound hands the session a new quiz, taking a prefetched one when
// available. A failed generation leaves no round behind.
func (s *quizService) NewRound(ctx context.Context, sessionID string) (*models.QuizRound, error) {
	log := logger.FromContext(ctx).WithField("session_id", sessionID)
	log.Debug("starting new round")

	round := models.QuizRound{SessionID: sessionID}
	if pre := s.popPrefetched(ctx); pre != nil {
		log.Debug("using prefetched quiz %d", pre.ID)
		round.Provider = pre.Provider
		round.Quiz = pre.Quiz
	} else {
		q, err := s.generation.GenerateQuiz(ctx)
		if err != nil {
			return nil, err
		}
		round.Provider = s.generation.Provider()
		round.Quiz = q
	}

	saved, err := s.roundRepo.Insert(ctx, round)
	if err != nil {
		log.Error("failed to save round: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.refill(ctx)
	log.Info("round %d started: %s", saved.ID, saved.Quiz.ChordName)
	return saved, nil
}

func (s *quizService) popPrefetched(ctx context.Context) *models.PrefetchedQuiz {
	if s.prefetchRepo == nil {
		return nil
	}
	pre, err := s.prefetchRepo.Pop(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to pop prefetched quiz, generating instead: %v", err)
		return nil
	}
	return pre
}

func (s *quizService) refill(ctx context.Context) {
	if s.jobQueue == nil {
		return
	}
	if _, err := s.jobQueue.EnqueuePrefetch(ctx); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue prefetch jobs: %v", err)
	}
}

func (s *quizService) GetRound(ctx context.Context, id int64) (*models.QuizRound, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting round: id=%d", id)

	round, err := s.roundRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("round", id)
		}
		log.Error("failed to get round: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if round == nil {
		return nil, errors.NewNotFoundError("round", id)
	}
	return round, nil
}

func (s *quizService) History(ctx context.Context, filter models.RoundFilter) ([]models.QuizRound, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing history: session_id=%s, chord=%s", filter.SessionID, filter.ChordName)

	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("page", "limit and offset cannot be negative")
	}

	rounds, err := s.roundRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list rounds: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.roundRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count rounds: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return rounds, total, nil
}

func (s *quizService) ChordCounts(ctx context.Context, sessionID string) ([]models.ChordCount, error) {
	counts, err := s.roundRepo.ChordCounts(ctx, sessionID, 20)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count chords: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return counts, nil
}
