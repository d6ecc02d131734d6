package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-fixtures/models"
)

// pairing is one slot pair of a sub-round; nil marks the bye slot.
type pairing struct {
	a, b *models.Team
}

// SubRoundsPerCycle returns how many sub-rounds one full rotation takes for n teams.
func SubRoundsPerCycle(n int) int {
	if n < 2 {
		return 0
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// MatchesPerCycle returns n*(n-1)/2, the number of distinct pairs.
func MatchesPerCycle(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// RoundRobin builds the fixture list with the circle method.
//
// Slot 0 stays fixed while the other slots rotate one step per sub-round. An odd
// team count gets an extra bye slot, and pairings against it are not emitted, so
// every team sits out exactly once per cycle. Within cycle i the pairing (a, b)
// is a home vs b away when i is even and reversed when i is odd. Rounds are
// numbered densely across cycles: subRound + i*SubRoundsPerCycle(n).
//
// The returned matches have TournamentID unset.
func RoundRobin(teams []models.Team, cycles int) ([]models.Match, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: at least 2 teams required, got %d", ErrInvalidInput, len(teams))
	}
	if cycles < 1 {
		return nil, fmt.Errorf("%w: cycles must be positive, got %d", ErrInvalidInput, cycles)
	}
	seen := make(map[int]struct{}, len(teams))
	for _, t := range teams {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: team %d listed twice", ErrInvalidInput, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	schedule := rotate(teams)
	subRounds := len(schedule)

	matches := make([]models.Match, 0, cycles*MatchesPerCycle(len(teams)))
	for cycle := 0; cycle < cycles; cycle++ {
		for j, subRound := range schedule {
			round := (j + 1) + cycle*subRounds
			for _, p := range subRound {
				home, away := p.a, p.b
				if cycle%2 == 1 {
					home, away = away, home
				}
				matches = append(matches, models.Match{
					HomeTeamID:   home.ID,
					HomeTeamName: home.Name,
					AwayTeamID:   away.ID,
					AwayTeamName: away.Name,
					Round:        round,
				})
			}
		}
	}

	return matches, nil
}

// rotate computes one cycle of sub-rounds, byes already removed.
func rotate(teams []models.Team) [][]pairing {
	slots := make([]*models.Team, 0, len(teams)+1)
	for i := range teams {
		slots = append(slots, &teams[i])
	}
	if len(slots)%2 != 0 {
		slots = append(slots, nil) // bye
	}

	n := len(slots)
	half := n / 2
	schedule := make([][]pairing, 0, n-1)

	for r := 0; r < n-1; r++ {
		subRound := make([]pairing, 0, half)
		for i := 0; i < half; i++ {
			a, b := slots[i], slots[n-1-i]
			if a == nil || b == nil {
				continue
			}
			// the fixed slot would otherwise always be listed first
			if i == 0 && r%2 == 1 {
				a, b = b, a
			}
			subRound = append(subRound, pairing{a: a, b: b})
		}
		schedule = append(schedule, subRound)

		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	return schedule
}
