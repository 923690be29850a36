package leaderboard

import (
	"time"

	"github.com/pfrederiksen/dxp-leaderboard/internal/tally"
)

// Board is one complete leaderboard run.
type Board struct {
	CheckedAt time.Time          `json:"checked_at"`
	UpdatedAt string             `json:"updated_at,omitempty"`
	Results   []tally.TeamResult `json:"results"`
}

// NewBoard stamps results with the time they were checked.
func NewBoard(results []tally.TeamResult, checkedAt time.Time) *Board {
	return &Board{
		CheckedAt: checkedAt.UTC(),
		Results:   results,
	}
}

// Empty reports whether the board holds no teams.
func (b *Board) Empty() bool {
	return b == nil || len(b.Results) == 0
}

// Text renders the board for chat.
func (b *Board) Text() string {
	if b.Empty() {
		return ""
	}
	return FormatAll(b.Results)
}
