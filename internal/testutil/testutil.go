package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/vytor/chordflash/internal/db"
	"github.com/vytor/chordflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same memory
// database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// CMajor is the C major triad in root position on the lower octave.
func CMajor() models.ChordQuiz {
	return models.ChordQuiz{
		ChordName: "C",
		Keys: []models.KeyDescriptor{
			{X: 10, IsBlack: false, Finger: 1, Note: models.NoteC},
			{X: 110, IsBlack: false, Finger: 3, Note: models.NoteE},
			{X: 210, IsBlack: false, Finger: 5, Note: models.NoteG},
		},
		Explanation: "Thumb on C, middle finger on E, little finger on G.",
	}
}

// CMajorJSON is CMajor as a generator would return it.
const CMajorJSON = `{"chord_name":"C","keys":[{"x":10,"is_black":false,"finger":1,"note":"C"},{"x":110,"is_black":false,"finger":3,"note":"E"},{"x":210,"is_black":false,"finger":5,"note":"G"}],"explanation":"Thumb on C, middle finger on E, little finger on G."}`
