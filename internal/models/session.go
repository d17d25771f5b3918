package models

import "time"

// Session holds the presentation state of one browser: which round is on
// screen, whether its answer is revealed and whether the debug panel is open.
type Session struct {
	ID             string    `json:"id"`
	CurrentRoundID *int64    `json:"current_round_id"`
	ShowAnswer     bool      `json:"show_answer"`
	Debug          bool      `json:"debug"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
