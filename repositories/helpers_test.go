package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSetClause(t *testing.T) {
	set, args := setClause([]patchField{{"name", "Cup"}, {"rounds", 2}}, 2)
	assert.Equal(t, "name = $2, rounds = $3", set)
	assert.Equal(t, []interface{}{"Cup", 2}, args)
}

func TestValuesPlaceholders(t *testing.T) {
	assert.Equal(t, "($1, $2, $3)", valuesPlaceholders(1, 3))
	assert.Equal(t, "($1, $2), ($3, $4), ($5, $6)", valuesPlaceholders(3, 2))
	assert.Equal(t, "", valuesPlaceholders(0, 6))
}

func TestTournamentPatchFields(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		patch   TournamentPatch
		columns []string
	}{
		{name: "empty", patch: TournamentPatch{}, columns: nil},
		{name: "name only", patch: TournamentPatch{Name: ptr("Spring Cup")}, columns: []string{"name"}},
		{
			name: "all fields keep column order",
			patch: TournamentPatch{
				Sport:            ptr("chess"),
				Public:           ptr(false),
				Rounds:           ptr(2),
				MaxTeams:         ptr(8),
				SignUpExpiration: &exp,
				Name:             ptr("Cup"),
			},
			columns: []string{"name", "sign_up_expiration", "max_teams", "rounds", "public", "sport"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, f := range tt.patch.fields() {
				got = append(got, f.column)
			}
			assert.Equal(t, tt.columns, got)
			assert.Equal(t, len(tt.columns) == 0, tt.patch.IsEmpty())
		})
	}
}

func TestMatchPatchFields(t *testing.T) {
	patch := MatchPatch{HomeTeamScore: ptr(3), Played: ptr(true)}
	fields := patch.fields()

	assert.Equal(t, []patchField{{"home_team_score", 3}, {"played", true}}, fields)
	assert.False(t, patch.IsEmpty())
	assert.True(t, MatchPatch{}.IsEmpty())
}
