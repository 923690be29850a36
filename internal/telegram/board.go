package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
)

// SendBoard posts the header and one <pre> table per team. Teams are packed
// into as few messages as fit; a team table is never split.
func (c *Client) SendBoard(ctx context.Context, header string, board *leaderboard.Board) error {
	messages := BoardMessages(header, board, MaxMessageLength)
	for i, msg := range messages {
		if err := c.SendMessage(ctx, msg); err != nil {
			return fmt.Errorf("sending message %d/%d: %w", i+1, len(messages), err)
		}
	}
	return nil
}

// BoardMessages renders board as HTML messages of at most limit characters.
func BoardMessages(header string, board *leaderboard.Board, limit int) []string {
	parts := make([]string, 0, len(board.Results)+1)
	if header != "" {
		parts = append(parts, html.EscapeString(header))
	}
	for _, r := range board.Results {
		parts = append(parts, "<pre>"+html.EscapeString(leaderboard.FormatTeam(r))+"</pre>")
	}

	var messages []string
	var current strings.Builder
	size := 0
	for _, part := range parts {
		n := len([]rune(part))
		if size > 0 && size+1+n > limit {
			messages = append(messages, current.String())
			current.Reset()
			size = 0
		}
		if size > 0 {
			current.WriteString("\n")
			size++
		}
		current.WriteString(part)
		size += n
	}
	if size > 0 {
		messages = append(messages, current.String())
	}
	return messages
}
