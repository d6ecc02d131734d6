package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-fixtures/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team reference is invalid")
)

const (
	matchColumns = `id, tournament_id, home_team_id, home_team_name, away_team_id, away_team_name,
		round, home_team_score, away_team_score, location, played, created_at`

	matchInsertWidth = 6
	// keeps a single statement well below the 65535 bind parameter limit
	matchInsertChunk = 1000
)

type MatchRepository interface {
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	// InsertBatch inserts all matches and returns them with generated ids, in input order.
	InsertBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) ([]models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, tournamentID, matchID int, patch MatchPatch) (*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanMatch(row rowScanner, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.HomeTeamName, &m.AwayTeamID, &m.AwayTeamName,
		&m.Round, &m.HomeTeamScore, &m.AwayTeamScore, &m.Location, &m.Played, &m.CreatedAt,
	)
}

func (r *postgresMatchRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InsertBatch should run inside a transaction when matches exceed one chunk,
// otherwise a failing later chunk leaves earlier chunks committed.
func (r *postgresMatchRepository) InsertBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	inserted := make([]models.Match, 0, len(matches))

	for start := 0; start < len(matches); start += matchInsertChunk {
		end := start + matchInsertChunk
		if end > len(matches) {
			end = len(matches)
		}
		chunk := matches[start:end]

		args := make([]interface{}, 0, len(chunk)*matchInsertWidth)
		for _, m := range chunk {
			args = append(args, m.TournamentID, m.HomeTeamID, m.HomeTeamName, m.AwayTeamID, m.AwayTeamName, m.Round)
		}

		// ids are drawn in VALUES order
		query := fmt.Sprintf(`
			WITH ins AS (
				INSERT INTO matches (tournament_id, home_team_id, home_team_name, away_team_id, away_team_name, round)
				VALUES %s
				RETURNING %s
			)
			SELECT %s FROM ins ORDER BY id`,
			valuesPlaceholders(len(chunk), matchInsertWidth), matchColumns, matchColumns)

		rows, err := executor.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, r.handleMatchError(err)
		}
		for rows.Next() {
			var m models.Match
			if scanErr := scanMatch(rows, &m); scanErr != nil {
				rows.Close()
				return nil, scanErr
			}
			inserted = append(inserted, m)
		}
		if err = rows.Err(); err != nil {
			rows.Close()
			return nil, r.handleMatchError(err)
		}
		rows.Close()
	}

	if len(inserted) != len(matches) {
		return nil, fmt.Errorf("batch insert returned %d rows, expected %d", len(inserted), len(matches))
	}
	return inserted, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY round ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := scanMatch(rows, &m); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, tournamentID, matchID int, patch MatchPatch) (*models.Match, error) {
	fields := patch.fields()
	if len(fields) == 0 {
		return nil, ErrEmptyPatch
	}
	set, args := setClause(fields, 3)
	query := `UPDATE matches SET ` + set + ` WHERE id = $1 AND tournament_id = $2 RETURNING ` + matchColumns

	m := &models.Match{}
	err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, append([]interface{}{matchID, tournamentID}, args...)...), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, r.handleMatchError(err)
	}
	return m, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrTournamentNotFound
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
