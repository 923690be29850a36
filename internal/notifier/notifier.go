package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
)

// Notifier defines the interface for posting leaderboards
type Notifier interface {
	// Notify posts the board
	Notify(ctx context.Context, board *leaderboard.Board) error
}

// HeaderTimeFormat is the layout of the timestamp in Header.
const HeaderTimeFormat = "Jan 2, 2006 15:04 MST"

// Header is the line posted ahead of each board.
func Header(checkedAt time.Time) string {
	return fmt.Sprintf("Results as of %s", checkedAt.UTC().Format(HeaderTimeFormat))
}
