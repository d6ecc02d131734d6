package models

import "time"

// Match is one fixture. Home/away names are denormalized at scheduling time.
type Match struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	HomeTeamID    int       `json:"home_team_id" db:"home_team_id"`
	HomeTeamName  string    `json:"home_team_name" db:"home_team_name"`
	AwayTeamID    int       `json:"away_team_id" db:"away_team_id"`
	AwayTeamName  string    `json:"away_team_name" db:"away_team_name"`
	Round         int       `json:"round" db:"round"`
	HomeTeamScore *int      `json:"home_team_score,omitempty" db:"home_team_score"`
	AwayTeamScore *int      `json:"away_team_score,omitempty" db:"away_team_score"`
	Location      *string   `json:"location,omitempty" db:"location"`
	Played        bool      `json:"played" db:"played"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
