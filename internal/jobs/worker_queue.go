package jobs

import (
	"context"
	"errors"
	"sync"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/repository"
	"github.com/vytor/chordflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool       *worker.Pool
	generation worker.GenerationServiceInterface
	store      repository.PrefetchRepository
	target     int

	mu      sync.Mutex
	pending int
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(
	pool *worker.Pool,
	generation worker.GenerationServiceInterface,
	store repository.PrefetchRepository,
	target int,
) *WorkerQueue {
	return &WorkerQueue{
		pool:       pool,
		generation: generation,
		store:      store,
		target:     target,
	}
}

func (q *WorkerQueue) EnqueuePrefetch(ctx context.Context) (int, error) {
	if q.target <= 0 {
		return 0, nil
	}
	log := logger.FromContext(ctx).WithPrefix("jobs")

	q.mu.Lock()
	defer q.mu.Unlock()

	stored, err := q.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	missing := q.target - stored - q.pending
	submitted := 0
	for i := 0; i < missing; i++ {
		err := q.pool.Submit(&worker.PrefetchJob{
			Generation: q.generation,
			Store:      q.store,
			OnDone:     q.done,
		})
		if errors.Is(err, worker.ErrQueueFull) {
			log.Debug("prefetch queue full after %d jobs", submitted)
			break
		}
		if err != nil {
			return submitted, err
		}
		q.pending++
		submitted++
	}
	if submitted > 0 {
		log.Debug("enqueued %d prefetch jobs (stored=%d, target=%d)", submitted, stored, q.target)
	}
	return submitted, nil
}

func (q *WorkerQueue) done() {
	q.mu.Lock()
	q.pending--
	q.mu.Unlock()
}

// Pending returns the number of submitted prefetch jobs that have not
// finished.
func (q *WorkerQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
