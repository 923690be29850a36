package notifier

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
	"github.com/pfrederiksen/dxp-leaderboard/internal/telegram"
)

type boardSender interface {
	SendBoard(ctx context.Context, header string, board *leaderboard.Board) error
}

// TelegramNotifier posts the board to a Telegram chat.
type TelegramNotifier struct {
	client boardSender
}

// NewTelegramNotifier creates a notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	client, err := telegram.NewClient(botToken, chatID)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{client: client}, nil
}

// Notify sends the board under a "Results as of" header.
func (n *TelegramNotifier) Notify(ctx context.Context, board *leaderboard.Board) error {
	if board.Empty() {
		return fmt.Errorf("no teams to post")
	}
	if err := n.client.SendBoard(ctx, Header(board.CheckedAt), board); err != nil {
		return fmt.Errorf("posting to telegram: %w", err)
	}
	return nil
}
