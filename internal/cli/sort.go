package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/dxp-leaderboard/internal/tally"
)

// SortOrder represents the available team orderings
type SortOrder string

const (
	// SortByRoster keeps teams in configuration order.
	SortByRoster SortOrder = "roster"
	// SortByTotal puts the leading team first.
	SortByTotal SortOrder = "total"
)

// parseSortOrder validates a --sort value.
func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByRoster, SortByTotal:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'roster' or 'total')", s)
	}
}

// sortResults returns results in the requested order. Player order within a team
// is never changed.
func sortResults(results []tally.TeamResult, order SortOrder) []tally.TeamResult {
	if order == SortByTotal {
		return tally.Standings(results)
	}
	return results
}
