package web

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/internal/store"
)

type resultsBody struct {
	Rows []swisskit.ResultRow `json:"rows"`
}

type aliasesBody struct {
	Aliases []swisskit.TeamAlias `json:"aliases"`
}

type summaryResponse struct {
	Sort  swisskit.SortBy        `json:"sort"`
	Top   int                    `json:"top"`
	Teams []swisskit.TeamSummary `json:"teams"`
	Chart swisskit.Series        `json:"chart"`
}

func (h *handler) loadResults(ctx context.Context, ws string) ([]swisskit.ResultRow, error) {
	var rows []swisskit.ResultRow
	return rows, h.load(ctx, ws, store.Results, &rows)
}

func (h *handler) loadAliases(ctx context.Context, ws string) ([]swisskit.TeamAlias, error) {
	var aliases []swisskit.TeamAlias
	return aliases, h.load(ctx, ws, store.Aliases, &aliases)
}

func (h *handler) getResults(w http.ResponseWriter, r *http.Request) {
	rows, err := h.loadResults(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rows == nil {
		rows = []swisskit.ResultRow{}
	}
	writeJSON(w, http.StatusOK, resultsBody{Rows: rows})
}

func (h *handler) postResults(w http.ResponseWriter, r *http.Request) {
	var req resultsBody
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	rows := swisskit.CleanResults(req.Rows)
	if len(rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.store.Save(r.Context(), workspace(r), store.Results, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsBody{Rows: rows})
}

func (h *handler) getAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.loadAliases(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if aliases == nil {
		aliases = []swisskit.TeamAlias{}
	}
	writeJSON(w, http.StatusOK, aliasesBody{Aliases: aliases})
}

func (h *handler) postAliases(w http.ResponseWriter, r *http.Request) {
	var req aliasesBody
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	aliases := swisskit.CleanAliases(req.Aliases)
	if len(aliases) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.store.Save(r.Context(), workspace(r), store.Aliases, aliases); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aliasesBody{Aliases: aliases})
}

// convertResults rewrites the stored results' team names through the alias table.
func (h *handler) convertResults(w http.ResponseWriter, r *http.Request) {
	dir := swisskit.Direction(r.URL.Query().Get("direction"))
	if dir != swisskit.LongToShort && dir != swisskit.ShortToLong {
		h.fail(w, r, badRequest("direction must be %q or %q", swisskit.LongToShort, swisskit.ShortToLong))
		return
	}
	ws := workspace(r)
	rows, err := h.loadResults(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	aliases, err := h.loadAliases(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rows) == 0 || len(aliases) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rows, err = swisskit.ConvertTeamNames(rows, aliases, dir)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.Save(r.Context(), ws, store.Results, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsBody{Rows: rows})
}

// summarize reads sort and top from the query and ranks the stored results.
// ok is false when there is nothing to rank.
func (h *handler) summarize(r *http.Request) (resp summaryResponse, ok bool, err error) {
	q := r.URL.Query()
	resp.Sort = swisskit.ParseSortBy(q.Get("sort"))
	resp.Top = h.opts.SummaryTop
	if s := q.Get("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return resp, false, badRequest("top must be a positive integer")
		}
		resp.Top = n
	}

	rows, err := h.loadResults(r.Context(), workspace(r))
	if err != nil || len(rows) == 0 {
		return resp, false, err
	}
	resp.Teams, err = swisskit.Summarize(rows, swisskit.WithSortBy(resp.Sort), swisskit.WithTop(resp.Top))
	if err != nil {
		return resp, false, badRequest("%v", err)
	}
	resp.Chart = swisskit.SummarySeries(resp.Teams, resp.Sort)
	return resp, true, nil
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	resp, ok, err := h.summarize(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) summaryXLSX(w http.ResponseWriter, r *http.Request) {
	resp, ok, err := h.summarize(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	var buf bytes.Buffer
	if err := swisskit.WriteSummaryXLSX(&buf, resp.Teams, resp.Sort); err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, xlsxContentType, swisskit.SummaryFileName, buf.Bytes())
}
