package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-fixtures/brackets"
	"github.com/Dosada05/tournament-fixtures/repositories"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// Жизненный цикл турнира
	ErrTournamentAlreadyStarted = errors.New("tournament has already been started")
	ErrInsufficientTeams        = errors.New("at least two teams are required to start a tournament")
	ErrInvalidInput             = brackets.ErrInvalidInput

	// Ошибки валидации и бизнес-правил
	ErrTournamentNameRequired     = errors.New("tournament name is required and must not exceed 255 characters")
	ErrTournamentInvalidRounds    = errors.New("tournament rounds must be a positive number")
	ErrTournamentInvalidCapacity  = errors.New("tournament max teams must be at least 2 and not below the registered team count")
	ErrTeamNameRequired           = errors.New("team name is required and must not exceed 255 characters")
	ErrDuplicateTeamName          = errors.New("team names must be unique within a tournament")
	ErrTournamentFull             = errors.New("tournament registration is full")
	ErrRegistrationClosed         = errors.New("tournament sign-up has expired")
	ErrTournamentUpdateNotAllowed = errors.New("rounds can not change after the tournament has started")
	ErrNothingToUpdate            = errors.New("no fields to update")
	ErrInvalidScore               = errors.New("scores must not be negative")

	// Конфликты
	ErrTournamentNameConflict = errors.New("tournament name already exists for this organizer")
	ErrTeamNameConflict       = errors.New("team name is already registered in this tournament")
	ErrSubscriptionConflict   = errors.New("already subscribed to this tournament")

	// Доступ
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)

var domainErrors = []error{
	ErrTournamentNotFound, ErrMatchNotFound, ErrUserNotFound, ErrSubscriptionNotFound,
	ErrTournamentAlreadyStarted, ErrInsufficientTeams, ErrInvalidInput,
	ErrTournamentNameRequired, ErrTournamentInvalidRounds, ErrTournamentInvalidCapacity,
	ErrTeamNameRequired, ErrDuplicateTeamName, ErrTournamentFull, ErrRegistrationClosed,
	ErrTournamentUpdateNotAllowed, ErrNothingToUpdate, ErrInvalidScore,
	ErrTournamentNameConflict, ErrTeamNameConflict, ErrSubscriptionConflict,
	ErrForbiddenOperation,
}

// StorageError wraps a persistence failure. The core does not retry;
// the caller may retry the whole operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleRepositoryError maps repository sentinels to service errors and wraps
// everything else into a StorageError.
func handleRepositoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrTeamTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrTournamentInvalidOwner):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrSubscriptionNotFound):
		return ErrSubscriptionNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrSubscriptionConflict):
		return ErrSubscriptionConflict
	case errors.Is(err, repositories.ErrEmptyPatch):
		return ErrNothingToUpdate
	}
	var se *StorageError
	if isDomainError(err) || errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
