package handlers

import "net/http"

// IndexHandler lists the public entry points of the API.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	routes := []string{
		"GET /tournaments",
		"POST /tournaments",
		"GET /tournaments/{tournamentID}",
		"PATCH /tournaments/{tournamentID}",
		"DELETE /tournaments/{tournamentID}",
		"POST /tournaments/{tournamentID}/teams",
		"POST /tournaments/{tournamentID}/start",
		"GET /tournaments/{tournamentID}/matches",
		"PATCH /tournaments/{tournamentID}/matches/{matchID}",
		"POST /tournaments/{tournamentID}/subscription",
		"DELETE /tournaments/{tournamentID}/subscription",
		"GET /profile",
		"GET /ws/tournaments/{tournamentID}",
		"GET /metrics",
		"GET /swagger/index.html",
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"routes": routes}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
