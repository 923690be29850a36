package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// parseFormat validates a --format value.
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// WriteOutput writes the board in the specified format
func WriteOutput(w io.Writer, board *leaderboard.Board, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, board)
	case FormatText:
		return writeText(w, board)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, board *leaderboard.Board) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(board)
}

// writeText prints the fenced team blocks exactly as they would be posted to chat.
func writeText(w io.Writer, board *leaderboard.Board) error {
	if board.Empty() {
		_, err := fmt.Fprintln(w, "No teams to show.")
		return err
	}
	_, err := fmt.Fprintln(w, board.Text())
	return err
}
