package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-fixtures/models"
)

var (
	ErrTeamNameConflict      = errors.New("team name is already registered in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament reference is invalid")
)

// имена команд уникальны без учёта регистра
const teamLowerNameIndex = "teams_tournament_id_lower_name_key"

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	// ListByTournament returns teams in registration order (by id, drawn under the tournament row lock).
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `INSERT INTO teams (tournament_id, name) VALUES ($1, $2) RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, team.TournamentID, team.Name).Scan(&team.ID, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, created_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok {
		switch {
		case pqErr.Code == pqUniqueViolation && (pqErr.Constraint == "teams_tournament_id_name_key" ||
			pqErr.Constraint == teamLowerNameIndex):
			return ErrTeamNameConflict
		case pqErr.Code == pqForeignKeyViolation && pqErr.Constraint == "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		}
	}
	return err
}
