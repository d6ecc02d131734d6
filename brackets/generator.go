package brackets

import (
	"errors"

	"github.com/Dosada05/tournament-fixtures/models"
)

// ErrInvalidInput is returned when the team list or cycle count can not produce a fixture.
var ErrInvalidInput = errors.New("invalid fixture input")

// FixtureGenerator turns a team roster and a cycle count into an ordered match list.
// Implementations must be pure: same input, same output, no I/O.
type FixtureGenerator func(teams []models.Team, cycles int) ([]models.Match, error)

var _ FixtureGenerator = RoundRobin
