package jobs

import "context"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueuePrefetch submits enough prefetch jobs to bring the stored and
	// in-flight quizzes up to the target. It returns how many were submitted.
	EnqueuePrefetch(ctx context.Context) (int, error)
}
