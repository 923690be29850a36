package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/dxp-leaderboard/internal/leaderboard"
)

// DefaultDataDir is where boards are kept unless configured otherwise.
const DefaultDataDir = "~/.local/share/dxp-leaderboard"

const boardFile = "leaderboard.json"

// Storage handles persistence of leaderboards
type Storage struct {
	dataDir string
	now     func() time.Time
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		now:     time.Now,
	}, nil
}

// Path returns the file the board is stored in.
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, boardFile)
}

// LoadBoard loads the last saved board. A missing file yields an empty board.
func (s *Storage) LoadBoard() (*leaderboard.Board, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return &leaderboard.Board{}, nil
		}
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	var board leaderboard.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("parsing leaderboard: %w", err)
	}
	return &board, nil
}

// SaveBoard writes board to disk, stamping UpdatedAt.
func (s *Storage) SaveBoard(board *leaderboard.Board) error {
	board.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding leaderboard: %w", err)
	}

	if err := os.WriteFile(s.Path(), data, 0644); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	return nil
}
