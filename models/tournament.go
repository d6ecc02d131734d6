package models

import "time"

// TournamentStatus is derived from the fixture state, it has no column of its own.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusScheduled    TournamentStatus = "scheduled"
)

// Tournament представляет турнир вместе с командами и расписанием.
type Tournament struct {
	ID               int        `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	UserID           int        `json:"user_id" db:"user_id"`
	SignUpExpiration *time.Time `json:"sign_up_expiration,omitempty" db:"sign_up_expiration"`
	MaxTeams         *int       `json:"max_teams,omitempty" db:"max_teams"`
	Rounds           int        `json:"rounds" db:"rounds"` // number of full round-robin cycles
	Public           bool       `json:"public" db:"public"`
	Sport            *string    `json:"sport,omitempty" db:"sport"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`

	Status     TournamentStatus `json:"status" db:"-"`
	Teams      []Team           `json:"teams" db:"-"`
	Matches    []Match          `json:"matches" db:"-"`
	FixtureURL *string          `json:"fixture_url,omitempty" db:"-"`
}

// Started reports whether fixtures have been generated.
func (t *Tournament) Started() bool {
	return len(t.Matches) > 0
}

// RefreshStatus sets Status from the attached matches.
func (t *Tournament) RefreshStatus() {
	if t.Started() {
		t.Status = StatusScheduled
		return
	}
	t.Status = StatusRegistration
}
