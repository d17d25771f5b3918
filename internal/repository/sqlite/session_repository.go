package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	var s models.Session
	var current sql.NullInt64
	if err := row.Scan(&s.ID, &current, &s.ShowAnswer, &s.Debug, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if current.Valid {
		id := current.Int64
		s.CurrentRoundID = &id
	}
	return &s, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", id)

	s, err := scanSession(r.db.QueryRowContext(ctx, `
SELECT id, current_round_id, show_answer, debug, created_at, updated_at
FROM sessions
WHERE id = ?
`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found: id=%s", id)
		} else {
			log.Error("failed to get session: %v", err)
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Create(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("creating session: id=%s", id)

	if _, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id); err != nil {
		log.Error("failed to create session: %v", err)
		return nil, err
	}
	log.Info("session created: id=%s", id)
	return r.Get(ctx, id)
}

func (r *sessionRepository) Update(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating session: id=%s, show_answer=%t, debug=%t", s.ID, s.ShowAnswer, s.Debug)

	var current any
	if s.CurrentRoundID != nil {
		current = *s.CurrentRoundID
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET current_round_id = ?, show_answer = ?, debug = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, current, s.ShowAnswer, s.Debug, s.ID)
	if err != nil {
		log.Error("failed to update session: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Debug("session not found for update: id=%s", s.ID)
		return sql.ErrNoRows
	}
	return nil
}
