// Package leaderboard renders tallied teams as fixed-width text blocks.
package leaderboard

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pfrederiksen/dxp-leaderboard/internal/tally"
)

const (
	// Separator frames the header and player lines of a team block.
	Separator = "---------------------------------------------"

	// NameWidth is the column players' names are padded to.
	NameWidth = 20

	fence = "```"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders n with comma thousands separators.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatTeam renders one team:
//
//	---------------------------------------------
//	Team Grape - 1,234,567
//	---------------------------------------------
//	Shanelle             1,000,000
//	...
//	---------------------------------------------
func FormatTeam(r tally.TeamResult) string {
	var b strings.Builder

	b.WriteString(Separator + "\n")
	fmt.Fprintf(&b, "Team %s - %s\n", r.Team, FormatNumber(r.Total))
	b.WriteString(Separator + "\n")
	for _, p := range r.Ranked {
		fmt.Fprintf(&b, "%-*s %s\n", NameWidth, p.Name, FormatNumber(p.XP))
	}
	b.WriteString(Separator + "\n")

	return b.String()
}

// FormatAll renders every team as a fenced code block, ready to paste into chat.
// Blocks are separated by a newline.
func FormatAll(results []tally.TeamResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, Fence(FormatTeam(r)))
	}
	return strings.Join(blocks, "\n")
}

// Fence wraps a rendered block in a markdown code fence.
func Fence(block string) string {
	return fence + "\n" + block + fence
}

// Summary renders a one-line standing of team totals, highest first.
func Summary(results []tally.TeamResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range tally.Standings(results) {
		parts = append(parts, fmt.Sprintf("%s %s", r.Team, FormatNumber(r.Total)))
	}
	if len(parts) == 0 {
		return "DXP standings: no teams"
	}
	return "DXP standings: " + strings.Join(parts, " | ")
}
