package repositories

import (
	"errors"
	"time"
)

var ErrEmptyPatch = errors.New("patch contains no fields")

// TournamentPatch is a field mask for tournaments: nil means "leave as is".
type TournamentPatch struct {
	Name             *string
	SignUpExpiration *time.Time
	MaxTeams         *int
	Rounds           *int
	Public           *bool
	Sport            *string
}

func (p TournamentPatch) fields() []patchField {
	var out []patchField
	if p.Name != nil {
		out = append(out, patchField{"name", *p.Name})
	}
	if p.SignUpExpiration != nil {
		out = append(out, patchField{"sign_up_expiration", *p.SignUpExpiration})
	}
	if p.MaxTeams != nil {
		out = append(out, patchField{"max_teams", *p.MaxTeams})
	}
	if p.Rounds != nil {
		out = append(out, patchField{"rounds", *p.Rounds})
	}
	if p.Public != nil {
		out = append(out, patchField{"public", *p.Public})
	}
	if p.Sport != nil {
		out = append(out, patchField{"sport", *p.Sport})
	}
	return out
}

func (p TournamentPatch) IsEmpty() bool {
	return len(p.fields()) == 0
}

// MatchPatch is a field mask for the mutable part of a match.
type MatchPatch struct {
	HomeTeamScore *int
	AwayTeamScore *int
	Location      *string
	Played        *bool
}

func (p MatchPatch) fields() []patchField {
	var out []patchField
	if p.HomeTeamScore != nil {
		out = append(out, patchField{"home_team_score", *p.HomeTeamScore})
	}
	if p.AwayTeamScore != nil {
		out = append(out, patchField{"away_team_score", *p.AwayTeamScore})
	}
	if p.Location != nil {
		out = append(out, patchField{"location", *p.Location})
	}
	if p.Played != nil {
		out = append(out, patchField{"played", *p.Played})
	}
	return out
}

func (p MatchPatch) IsEmpty() bool {
	return len(p.fields()) == 0
}
