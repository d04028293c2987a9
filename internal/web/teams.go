package web

import (
	"net/http"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/internal/store"
)

type teamsRequest struct {
	Teams []swisskit.TeamRow `json:"teams"`
}

type teamsResponse struct {
	Teams   []swisskit.TeamRow   `json:"teams"`
	Actions swisskit.TeamActions `json:"actions"`
}

func newTeamsResponse(teams []swisskit.TeamRow) teamsResponse {
	if teams == nil {
		teams = []swisskit.TeamRow{}
	}
	return teamsResponse{Teams: teams, Actions: swisskit.Actions(teams)}
}

func (h *handler) getTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.loadTeams(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTeamsResponse(teams))
}

func (h *handler) postTeams(w http.ResponseWriter, r *http.Request) {
	var req teamsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if len(req.Teams) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	teams := swisskit.NormalizeTeams(req.Teams)
	if err := h.store.Save(r.Context(), workspace(r), store.Teams, teams); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTeamsResponse(teams))
}

func (h *handler) teamsFromPlayers(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	rows, err := h.loadRoster(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	teams := swisskit.TeamsFromRoster(rows)
	if len(teams) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.store.Save(r.Context(), ws, store.Teams, teams); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTeamsResponse(teams))
}

func (h *handler) exportTeamsXML(w http.ResponseWriter, r *http.Request) {
	teams, err := h.loadTeams(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !swisskit.Actions(teams).GenerateTeams {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	data, err := swisskit.TeamsXML(teams)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, "application/xml", swisskit.TeamsFileName, data)
}
