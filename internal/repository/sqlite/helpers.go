package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/chordflash/internal/logger"
	"github.com/vytor/chordflash/internal/models"
	"github.com/vytor/chordflash/internal/quiz"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Helper functions shared across repository implementations

func tx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	log := logger.FromContext(ctx).WithPrefix("repo")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction: %v", err)
		return err
	}
	log.Debug("transaction committed")
	return nil
}

func encodeQuiz(q models.ChordQuiz) (string, error) {
	if q.Keys == nil {
		q.Keys = []models.KeyDescriptor{}
	}
	data, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}
	return string(data), nil
}

// decodeQuiz runs stored payloads through the same validation as
// generator output.
func decodeQuiz(payload string) (models.ChordQuiz, error) {
	q, err := quiz.Parse([]byte(payload))
	if err != nil {
		return models.ChordQuiz{}, fmt.Errorf("decode stored quiz: %w", err)
	}
	return q, nil
}
