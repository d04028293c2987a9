package web

import (
	"bytes"
	"net/http"

	"github.com/javajack/swisskit/qr"
)

type qrRequest struct {
	Text string `json:"text"`
	qr.Options
}

// qrCode answers with a PNG, or with {"dataUri": ...} for ?format=datauri.
func (h *handler) qrCode(w http.ResponseWriter, r *http.Request) {
	var req qrRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Text == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.URL.Query().Get("format") == "datauri" {
		uri, err := qr.DataURI(req.Text, req.Options)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"dataUri": uri})
		return
	}

	var buf bytes.Buffer
	if err := qr.PNG(&buf, req.Text, req.Options); err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, "image/png", "qr.png", buf.Bytes())
}
