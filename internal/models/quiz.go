package models

import "time"

// KeyDescriptor is one highlighted key of a chord diagram.
type KeyDescriptor struct {
	X       int      `json:"x"`
	IsBlack bool     `json:"is_black"`
	Finger  int      `json:"finger"`
	Note    NoteName `json:"note"`
}

// ChordQuiz is a single quiz item as produced by the generator.
// Keys are kept in play order.
type ChordQuiz struct {
	ChordName   string          `json:"chord_name"`
	Keys        []KeyDescriptor `json:"keys"`
	Explanation string          `json:"explanation"`
}

// QuizRound is a ChordQuiz handed out to a session.
type QuizRound struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Provider  string    `json:"provider"`
	Quiz      ChordQuiz `json:"quiz"`
	CreatedAt time.Time `json:"created_at"`
}

type RoundFilter struct {
	SessionID string
	ChordName string
	Limit     int
	Offset    int
}

type ChordCount struct {
	ChordName string `json:"chord_name"`
	Count     int    `json:"count"`
}

// PrefetchedQuiz is a validated quiz waiting to be assigned to a session.
type PrefetchedQuiz struct {
	ID        int64     `json:"id"`
	Provider  string    `json:"provider"`
	Quiz      ChordQuiz `json:"quiz"`
	CreatedAt time.Time `json:"created_at"`
}
