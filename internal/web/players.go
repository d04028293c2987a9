package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/internal/store"
)

type playersRequest struct {
	Rows swisskit.Roster `json:"rows"`
}

type playersResponse struct {
	Rows   swisskit.Roster  `json:"rows"`
	Groups []string         `json:"groups"`
	Issues []swisskit.Issue `json:"issues,omitempty"`
}

func newPlayersResponse(rows swisskit.Roster, issues []swisskit.Issue) playersResponse {
	if rows == nil {
		rows = swisskit.Roster{}
	}
	groups := swisskit.Groups(rows)
	if groups == nil {
		groups = []string{}
	}
	return playersResponse{Rows: rows, Groups: groups, Issues: issues}
}

// load reads a table, treating a missing one as empty.
func (h *handler) load(ctx context.Context, ws string, table store.Table, v any) error {
	err := h.store.Load(ctx, ws, table, v)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (h *handler) loadRoster(ctx context.Context, ws string) (swisskit.Roster, error) {
	var rows swisskit.Roster
	return rows, h.load(ctx, ws, store.Players, &rows)
}

func (h *handler) loadTeams(ctx context.Context, ws string) ([]swisskit.TeamRow, error) {
	var teams []swisskit.TeamRow
	return teams, h.load(ctx, ws, store.Teams, &teams)
}

func (h *handler) getPlayers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.loadRoster(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayersResponse(rows, nil))
}

// postPlayers normalizes the edited grid (trailing formula row included)
// and stores the result.
func (h *handler) postPlayers(w http.ResponseWriter, r *http.Request) {
	var req playersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if len(req.Rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rows, err := h.tmpl.Normalize(req.Rows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	issues := h.tmpl.Validate(req.Rows)
	if err := h.store.Save(r.Context(), workspace(r), store.Players, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayersResponse(rows, issues))
}

func (h *handler) deletePlayers(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), workspace(r), store.Players); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) fillGroup(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	rows, err := h.loadRoster(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rows = swisskit.FillGroup(rows)
	if err := h.store.Save(r.Context(), ws, store.Players, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayersResponse(rows, nil))
}

// fillFromTeams applies one of the team-table lookups to the roster.
func (h *handler) fillFromTeams(fill func(swisskit.Roster, []swisskit.TeamRow) swisskit.Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspace(r)
		rows, err := h.loadRoster(r.Context(), ws)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		teams, err := h.loadTeams(r.Context(), ws)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if len(rows) == 0 || len(teams) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		rows = fill(rows, teams)
		if err := h.store.Save(r.Context(), ws, store.Players, rows); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newPlayersResponse(rows, nil))
	}
}

func (h *handler) exportPlayersXML(w http.ResponseWriter, r *http.Request) {
	rows, err := h.loadRoster(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	group := r.URL.Query().Get("group")
	name := swisskit.PlayersFileName
	if group != "" {
		name = swisskit.GroupFileName(group)
	}
	data, err := swisskit.PlayersXML(rows, swisskit.WithGroup(group))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, "application/xml", name, data)
}

func (h *handler) exportPlayersXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := h.loadRoster(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	var buf bytes.Buffer
	if err := swisskit.WriteRosterXLSX(&buf, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, xlsxContentType, swisskit.RosterFileName, buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
