package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
)

// DryRunNotifier prints the board instead of posting it
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a notifier that writes to w
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify writes the header and the fenced board
func (n *DryRunNotifier) Notify(_ context.Context, board *leaderboard.Board) error {
	if board.Empty() {
		return fmt.Errorf("no teams to post")
	}
	if _, err := fmt.Fprintf(n.w, "%s\n%s\n", Header(board.CheckedAt), board.Text()); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}
	return nil
}
