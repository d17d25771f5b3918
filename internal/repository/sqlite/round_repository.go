package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/repository"
)

type roundRepository struct {
	db *sql.DB
}

// NewRoundRepository creates a new RoundRepository implementation
func NewRoundRepository(db *sql.DB) repository.RoundRepository {
	return &roundRepository{db: db}
}

var roundColumns = []string{"id", "session_id", "provider", "payload", "created_at"}

func scanRound(row interface{ Scan(...any) error }) (*models.QuizRound, error) {
	var rd models.QuizRound
	var payload string
	if err := row.Scan(&rd.ID, &rd.SessionID, &rd.Provider, &payload, &rd.CreatedAt); err != nil {
		return nil, err
	}
	q, err := decodeQuiz(payload)
	if err != nil {
		return nil, err
	}
	rd.Quiz = q
	return &rd, nil
}

func (r *roundRepository) Insert(ctx context.Context, round models.QuizRound) (*models.QuizRound, error) {
	log := logger.FromContext(ctx).WithPrefix("round_repo")
	log.Debug("inserting round: session_id=%s, chord=%s", round.SessionID, round.Quiz.ChordName)

	payload, err := encodeQuiz(round.Quiz)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_rounds (session_id, chord_name, provider, payload)
VALUES (?, ?, ?, ?)
`, round.SessionID, round.Quiz.ChordName, round.Provider, payload)
	if err != nil {
		log.Error("failed to insert round: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get round id: %v", err)
		return nil, err
	}
	log.Debug("round inserted: id=%d", id)
	return r.Get(ctx, id)
}

func (r *roundRepository) Get(ctx context.Context, id int64) (*models.QuizRound, error) {
	log := logger.FromContext(ctx).WithPrefix("round_repo")
	log.Debug("getting round: id=%d", id)

	query, args, err := sqlBuilder.Select(roundColumns...).
		From("quiz_rounds").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rd, err := scanRound(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("round not found: id=%d", id)
		} else {
			log.Error("failed to get round: %v", err)
		}
		return nil, err
	}
	return rd, nil
}

func applyRoundFilter(q squirrel.SelectBuilder, filter models.RoundFilter) squirrel.SelectBuilder {
	if filter.SessionID != "" {
		q = q.Where(squirrel.Eq{"session_id": filter.SessionID})
	}
	if filter.ChordName != "" {
		q = q.Where(squirrel.Eq{"chord_name": filter.ChordName})
	}
	return q
}

func (r *roundRepository) List(ctx context.Context, filter models.RoundFilter) ([]models.QuizRound, error) {
	log := logger.FromContext(ctx).WithPrefix("round_repo")
	log.Debug("listing rounds with filter: session_id=%s, chord=%s", filter.SessionID, filter.ChordName)

	query := applyRoundFilter(sqlBuilder.Select(roundColumns...).From("quiz_rounds"), filter).
		OrderBy("created_at DESC", "id DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list rounds: %v", err)
		return nil, err
	}
	defer rows.Close()

	var rounds []models.QuizRound
	for rows.Next() {
		rd, err := scanRound(rows)
		if err != nil {
			log.Error("failed to scan round row: %v", err)
			return nil, err
		}
		rounds = append(rounds, *rd)
	}
	log.Debug("found %d rounds", len(rounds))
	return rounds, rows.Err()
}

func (r *roundRepository) Count(ctx context.Context, filter models.RoundFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("round_repo")

	sqlStr, args, err := applyRoundFilter(sqlBuilder.Select("COUNT(*)").From("quiz_rounds"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count rounds: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *roundRepository) ChordCounts(ctx context.Context, sessionID string, limit int) ([]models.ChordCount, error) {
	log := logger.FromContext(ctx).WithPrefix("round_repo")
	log.Debug("counting chords: session_id=%s", sessionID)

	if limit <= 0 {
		limit = 20
	}
	query := applyRoundFilter(
		sqlBuilder.Select("chord_name", "COUNT(*) AS n").From("quiz_rounds"),
		models.RoundFilter{SessionID: sessionID},
	).
		GroupBy("chord_name").
		OrderBy("n DESC", "chord_name ASC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to count chords: %v", err)
		return nil, err
	}
	defer rows.Close()

	var counts []models.ChordCount
	for rows.Next() {
		var c models.ChordCount
		if err := rows.Scan(&c.ChordName, &c.Count); err != nil {
			log.Error("failed to scan chord count: %v", err)
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
