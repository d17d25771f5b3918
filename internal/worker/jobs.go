package worker

import (
	"context"
	"fmt"

	"github.com/vytor/chordflash/internal/logger"
)

// PrefetchJob generates one quiz and stores it for a later round. Quizzes
// that fail validation are reported as job errors and never stored.
type PrefetchJob struct {
	Generation GenerationServiceInterface
	Store      PrefetchStore
	OnDone     func()
}

func (j *PrefetchJob) Name() string { return "prefetch_quiz" }

func (j *PrefetchJob) Run(ctx context.Context) error {
	if j.OnDone != nil {
		defer j.OnDone()
	}
	log := logger.FromContext(ctx).WithField("provider", j.Generation.Provider())

	q, err := j.Generation.GenerateQuiz(ctx)
	if err != nil {
		log.Warn("discarding prefetch attempt: %v", err)
		return fmt.Errorf("generate quiz: %w", err)
	}

	id, err := j.Store.Push(ctx, j.Generation.Provider(), q)
	if err != nil {
		return fmt.Errorf("store prefetched quiz: %w", err)
	}
	log.Debug("prefetched quiz %d: %s", id, q.ChordName)
	return nil
}
