// Package tally sums per-player xp gains into team results.
//
// Players are fetched one at a time in roster order. By default a player whose xp
// cannot be read, for any reason, counts as zero and is listed in TeamResult.Missing
// so the caller decides how to report it. Strict mode aborts on fetch failures instead.
package tally

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/dxp-leaderboard/internal/roster"
	"github.com/pfrederiksen/dxp-leaderboard/internal/scraper"
)

// LookupFunc returns the raw scrape result for one player.
type LookupFunc func(ctx context.Context, name string) (scraper.Lookup, error)

// Options controls how lookup failures are absorbed.
type Options struct {
	// Strict aborts the team on the first fetch error instead of scoring the player 0.
	Strict bool
}

// PlayerResult is one player's contribution to a team.
type PlayerResult struct {
	Name  string `json:"name"`
	Raw   string `json:"raw"`
	XP    int64  `json:"xp"`
	Found bool   `json:"found"`
	Err   error  `json:"-"`
}

// TeamResult is a tallied team.
type TeamResult struct {
	Team    string         `json:"team"`
	Total   int64          `json:"total"`
	Ranked  []PlayerResult `json:"ranked"`
	Missing []string       `json:"missing,omitempty"`
}

// ParseXP parses a comma-grouped, non-negative integer such as "12,345".
func ParseXP(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty xp value")
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing xp %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative xp %q", raw)
	}
	return v, nil
}

// Tally fetches every player of team and returns the total and the players ranked
// by xp, highest first. Equal xp keeps roster order.
func Tally(ctx context.Context, team roster.Team, lookup LookupFunc, opts Options) (TeamResult, error) {
	result := TeamResult{
		Team:   team.Name,
		Ranked: make([]PlayerResult, 0, len(team.Players)),
	}

	for _, name := range team.Players {
		if err := ctx.Err(); err != nil {
			return TeamResult{}, fmt.Errorf("tallying team %s: %w", team.Name, err)
		}

		player := PlayerResult{Name: name, Raw: scraper.MissingXP}

		res, err := lookup(ctx, name)
		switch {
		case err != nil:
			if opts.Strict {
				return TeamResult{}, fmt.Errorf("tallying team %s: %w", team.Name, err)
			}
			player.Err = err
		case !res.Found:
			player.Raw = res.Raw
		default:
			player.Raw = res.Raw
			xp, perr := ParseXP(res.Raw)
			if perr != nil {
				player.Err = perr
			} else {
				player.XP = xp
				player.Found = true
			}
		}

		if !player.Found {
			result.Missing = append(result.Missing, name)
		}
		result.Total += player.XP
		result.Ranked = append(result.Ranked, player)
	}

	sort.SliceStable(result.Ranked, func(i, j int) bool {
		return result.Ranked[i].XP > result.Ranked[j].XP
	})
	return result, nil
}

// TallyAll tallies each team independently, in order.
func TallyAll(ctx context.Context, teams []roster.Team, lookup LookupFunc, opts Options) ([]TeamResult, error) {
	results := make([]TeamResult, 0, len(teams))
	for _, team := range teams {
		r, err := Tally(ctx, team, lookup, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Standings returns a copy of results ordered by team total, highest first.
// Equal totals keep their original order.
func Standings(results []TeamResult) []TeamResult {
	ranked := make([]TeamResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	return ranked
}
