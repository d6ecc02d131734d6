package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-fixtures/models"
)

var (
	ErrSubscriptionConflict = errors.New("already subscribed to this tournament")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type SubscriptionRepository interface {
	Create(ctx context.Context, userID, tournamentID int) (int, error)
	Delete(ctx context.Context, userID, tournamentID int) error
	ListByUser(ctx context.Context, userID int) ([]models.SubscribedSummary, error)
}

type postgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &postgresSubscriptionRepository{db: db}
}

func (r *postgresSubscriptionRepository) Create(ctx context.Context, userID, tournamentID int) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO subscriptions (user_id, tournament_id) VALUES ($1, $2) RETURNING id`,
		userID, tournamentID,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			switch {
			case pqErr.Code == pqUniqueViolation:
				return 0, ErrSubscriptionConflict
			case pqErr.Code == pqForeignKeyViolation && pqErr.Constraint == "subscriptions_tournament_id_fkey":
				return 0, ErrTournamentNotFound
			case pqErr.Code == pqForeignKeyViolation && pqErr.Constraint == "subscriptions_user_id_fkey":
				return 0, ErrUserNotFound
			}
		}
		return 0, err
	}
	return id, nil
}

func (r *postgresSubscriptionRepository) Delete(ctx context.Context, userID, tournamentID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = $1 AND tournament_id = $2`, userID, tournamentID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSubscriptionNotFound)
}

func (r *postgresSubscriptionRepository) ListByUser(ctx context.Context, userID int) ([]models.SubscribedSummary, error) {
	query := `
		SELECT s.id, t.id, t.name, t.user_id, t.sign_up_expiration, t.max_teams, t.rounds, t.public, t.sport, t.created_at
		FROM subscriptions s
		JOIN tournaments t ON t.id = s.tournament_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, s.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.SubscribedSummary, 0)
	for rows.Next() {
		var s models.SubscribedSummary
		t := &s.Tournament
		if scanErr := rows.Scan(
			&s.SubscriptionID, &t.ID, &t.Name, &t.UserID, &t.SignUpExpiration, &t.MaxTeams,
			&t.Rounds, &t.Public, &t.Sport, &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		subs = append(subs, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}
