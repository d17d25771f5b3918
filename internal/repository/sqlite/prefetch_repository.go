package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/repository"
)

type prefetchRepository struct {
	db *sql.DB
}

// NewPrefetchRepository creates a new PrefetchRepository implementation
func NewPrefetchRepository(db *sql.DB) repository.PrefetchRepository {
	return &prefetchRepository{db: db}
}

func (r *prefetchRepository) Push(ctx context.Context, provider string, q models.ChordQuiz) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("prefetch_repo")

	payload, err := encodeQuiz(q)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO prefetched_quizzes (provider, payload) VALUES (?, ?)`, provider, payload)
	if err != nil {
		log.Error("failed to push prefetched quiz: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	log.Debug("prefetched quiz stored: id=%d, chord=%s", id, q.ChordName)
	return id, nil
}

// Pop removes and returns the oldest prefetched quiz.
func (r *prefetchRepository) Pop(ctx context.Context) (*models.PrefetchedQuiz, error) {
	log := logger.FromContext(ctx).WithPrefix("prefetch_repo")

	var out *models.PrefetchedQuiz
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var p models.PrefetchedQuiz
		var payload string
		err := tx.QueryRowContext(ctx, `
SELECT id, provider, payload, created_at
FROM prefetched_quizzes
ORDER BY id ASC
LIMIT 1
`).Scan(&p.ID, &p.Provider, &payload, &p.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM prefetched_quizzes WHERE id = ?`, p.ID); err != nil {
			return err
		}

		q, err := decodeQuiz(payload)
		if err != nil {
			// Drop the broken row with the delete above.
			log.Warn("discarding unreadable prefetched quiz id=%d: %v", p.ID, err)
			return nil
		}
		p.Quiz = q
		out = &p
		return nil
	})
	if err != nil {
		log.Error("failed to pop prefetched quiz: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *prefetchRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prefetched_quizzes`).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("prefetch_repo").Error("failed to count prefetched quizzes: %v", err)
		return 0, err
	}
	return n, nil
}
