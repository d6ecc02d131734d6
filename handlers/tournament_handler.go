package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/tournament-fixtures/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

type createTournamentRequest struct {
	Name             string     `json:"name"`
	SignUpExpiration *time.Time `json:"sign_up_expiration"`
	MaxTeams         *int       `json:"max_teams"`
	Rounds           *int       `json:"rounds"`
	Public           bool       `json:"public"`
	Sport            *string    `json:"sport"`
	Teams            []string   `json:"teams"`
}

type updateTournamentRequest struct {
	Name             *string    `json:"name"`
	SignUpExpiration *time.Time `json:"sign_up_expiration"`
	MaxTeams         *int       `json:"max_teams"`
	Rounds           *int       `json:"rounds"`
	Public           *bool      `json:"public"`
	Sport            *string    `json:"sport"`
}

type addTeamRequest struct {
	Name string `json:"name"`
}

// CreateHandler godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param body body createTournamentRequest true "Турнир и начальный список команд"
// @Success 201 {object} map[string]interface{} "Турнир создан"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 409 {object} map[string]string "Имя уже занято"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var req createTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), actor, services.CreateTournamentInput{
		Name:             req.Name,
		SignUpExpiration: req.SignUpExpiration,
		MaxTeams:         req.MaxTeams,
		Rounds:           req.Rounds,
		Public:           req.Public,
		Sport:            req.Sport,
		Teams:            req.Teams,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Турнир с командами и расписанием
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournamentByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler godoc
// @Summary Список турниров
// @Tags tournaments
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Param user_id query int false "Organizer ID"
// @Success 200 {object} map[string]interface{}
// @Router /tournaments [get]
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	var filter services.ListTournamentsFilter

	limit, _, err := queryInt(r, "limit", 1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, _, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok, err := queryInt(r, "user_id", 1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if ok {
		filter.UserID = &userID
	}
	filter.Limit = limit
	filter.Offset = offset

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateHandler godoc
// @Summary Частичное обновление турнира
// @Description Передаются только изменяемые поля. rounds нельзя менять после старта.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body updateTournamentRequest true "Изменяемые поля"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [patch]
func (h *TournamentHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to update tournament")
		return
	}

	var req updateTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.UpdateTournament(r.Context(), id, actor, services.UpdateTournamentInput{
		Name:             req.Name,
		SignUpExpiration: req.SignUpExpiration,
		MaxTeams:         req.MaxTeams,
		Rounds:           req.Rounds,
		Public:           req.Public,
		Sport:            req.Sport,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler godoc
// @Summary Удалить турнир
// @Tags tournaments
// @Param tournamentID path int true "Tournament ID"
// @Success 204
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tournaments/{tournamentID} [delete]
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to delete tournament")
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id, actor); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTeamHandler godoc
// @Summary Зарегистрировать команду
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body addTeamRequest true "Команда"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Турнир уже начат / регистрация закрыта"
// @Failure 409 {object} map[string]string "Турнир заполнен / имя занято"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TournamentHandler) AddTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req addTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.tournamentService.AddTeam(r.Context(), id, services.AddTeamInput{Name: req.Name})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartHandler godoc
// @Summary Запустить турнир
// @Description Генерирует круговое расписание. Повторный запуск возвращает 400.
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Турнир с матчами"
// @Failure 400 {object} map[string]string "Уже запущен / недостаточно команд"
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string "Ошибка хранилища, запрос можно повторить"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/start [post]
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.StartTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
