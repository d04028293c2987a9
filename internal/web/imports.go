package web

import (
	"encoding/json"
	"net/http"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/internal/store"
)

// previewRows is how many data rows each sheet shows before mapping.
const previewRows = 5

type sheetInfo struct {
	Name    string           `json:"name"`
	Headers []string         `json:"headers"`
	Mapping swisskit.Mapping `json:"mapping"`
	Preview [][]string       `json:"preview"`
	Rows    int              `json:"rows"`
}

type sheetsResponse struct {
	Sheets []sheetInfo `json:"sheets"`
	Fields []string    `json:"fields"`
}

// readUpload parses the multipart body and opens its "file" part as a workbook.
func readUpload(r *http.Request) (*swisskit.Workbook, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, badRequest("invalid upload: %v", err)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest("missing file: %v", err)
	}
	defer f.Close()

	wb, err := swisskit.ReadWorkbook(f)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return wb, nil
}

// importSheets lists the sheets of an uploaded workbook with a suggested
// column mapping for each.
func (h *handler) importSheets(w http.ResponseWriter, r *http.Request) {
	wb, err := readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := sheetsResponse{Sheets: []sheetInfo{}}
	for _, f := range swisskit.ImportableFields() {
		resp.Fields = append(resp.Fields, f.Label())
	}
	for _, s := range wb.Sheets {
		preview := s.Rows
		if len(preview) > previewRows {
			preview = preview[:previewRows]
		}
		resp.Sheets = append(resp.Sheets, sheetInfo{
			Name:    s.Name,
			Headers: s.Headers,
			Mapping: swisskit.SuggestMapping(s.Headers),
			Preview: preview,
			Rows:    len(s.Rows),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// importRoster maps a sheet of the uploaded workbook onto the roster.
// Form fields: sheet, mapping (JSON object header → field label, suggested
// when absent) and mode (replace or append).
func (h *handler) importRoster(w http.ResponseWriter, r *http.Request) {
	wb, err := readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sheet, err := wb.Sheet(r.FormValue("sheet"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	mapping := swisskit.SuggestMapping(sheet.Headers)
	if raw := r.FormValue("mapping"); raw != "" {
		mapping = swisskit.Mapping{}
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			h.fail(w, r, badRequest("invalid mapping: %v", err))
			return
		}
	}
	mode := swisskit.ImportMode(r.FormValue("mode"))
	if mode == "" {
		mode = swisskit.ImportReplace
	}
	if mode != swisskit.ImportReplace && mode != swisskit.ImportAppend {
		h.fail(w, r, badRequest("unknown import mode %q", mode))
		return
	}

	imported, err := sheet.ToRoster(mapping)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(imported) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ws := workspace(r)
	current, err := h.loadRoster(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, err := h.tmpl.Normalize(swisskit.MergeImport(current, imported, mode))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.Save(r.Context(), ws, store.Players, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayersResponse(rows, h.tmpl.Validate(rows)))
}
