// Package roster defines the teams compared on the leaderboard.
//
// Rosters are plain configuration data: a team name plus its players in the order
// they were listed. That order is the tie-break when two players have equal xp.
package roster

import (
	"fmt"
	"strings"
)

// Team is a named group of player handles.
type Team struct {
	Name    string   `mapstructure:"name" json:"name"`
	Players []string `mapstructure:"players" json:"players"`
}

// Defaults returns the Fruit Wars rosters.
func Defaults() []Team {
	return []Team{
		{
			Name: "Grape",
			Players: []string{
				"Shanelle", "Situations", "NeoNerV", "Kadeem", "IceRiver225", "Gamie",
				"brianward23", "Hoffster", "Captain Dk53", "WARL0RD TH0R", "Old_fally", "yu-sin-kwan",
			},
		},
		{
			Name: "Apple",
			Players: []string{
				"Catman", "Rubiess", "hidenpequin", "Blaviken", "K1ngchile69", "MeleeNewb",
				"Feerip", "PepperSaltYo", "Finnsisjon", "Sinteresting", "Abyssal Arse", "ohitskirsten",
			},
		},
		{
			Name: "Cherry",
			Players: []string{
				"Batsie", "FeralCreator", "Ghost Gob", "Nexxey", "TuggyMcNutty", "Ody29",
				"doe gewoon", "yare_bear", "XxKrazinoxX", "Vws dipper", "ItsGarfield", "Nugget815",
			},
		},
		{
			Name: "Peach",
			Players: []string{
				"9tails", "Walkers", "EatMyBabyz", "woefulsteve", "Fineapples", "Beauty4Ashes",
				"Ayhet", "PecorineChan", "Matar", "Sir Tobias", "GW143", "Demi3k",
			},
		},
	}
}

// Validate checks that team names are present and unique, and that every team
// lists non-blank, non-repeated players. Player names compare case-insensitively
// since the tracker treats them that way.
func Validate(teams []Team) error {
	seenTeams := make(map[string]bool, len(teams))
	for i, team := range teams {
		name := strings.TrimSpace(team.Name)
		if name == "" {
			return fmt.Errorf("team %d: name is required", i+1)
		}
		key := strings.ToLower(name)
		if seenTeams[key] {
			return fmt.Errorf("duplicate team name: %s", name)
		}
		seenTeams[key] = true

		seenPlayers := make(map[string]bool, len(team.Players))
		for j, player := range team.Players {
			p := strings.TrimSpace(player)
			if p == "" {
				return fmt.Errorf("team %s: player %d is blank", name, j+1)
			}
			pk := strings.ToLower(p)
			if seenPlayers[pk] {
				return fmt.Errorf("team %s: duplicate player %s", name, p)
			}
			seenPlayers[pk] = true
		}
	}
	return nil
}

// Select returns the teams whose names match one of names, in roster order.
// An empty names list selects every team. Unknown names are an error.
func Select(teams []Team, names []string) ([]Team, error) {
	if len(names) == 0 {
		return teams, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}

	selected := make([]Team, 0, len(names))
	for _, team := range teams {
		key := strings.ToLower(team.Name)
		if wanted[key] {
			selected = append(selected, team)
			delete(wanted, key)
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for _, n := range names {
			if wanted[strings.ToLower(strings.TrimSpace(n))] {
				missing = append(missing, n)
			}
		}
		return nil, fmt.Errorf("unknown team: %s", strings.Join(missing, ", "))
	}
	return selected, nil
}
