package web

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

type tool struct {
	Name, Path, Description string
}

var tools = []tool{
	{"Players", "/api/{ws}/players", "Edit the roster, split names, flag duplicates and apply a formula row."},
	{"Teams", "/api/{ws}/teams", "Map federations to clubs and team ids, then fill the roster."},
	{"Export", "/api/{ws}/export/players.xml", "Swiss-Manager players and teams XML, per group or whole."},
	{"Import", "/api/import/sheets", "Read an Excel workbook and map its columns onto the roster."},
	{"Summary", "/api/{ws}/summary", "Rank teams from final standings and export them to Excel."},
	{"Cards", "/api/{ws}/cards/preview", "Print player cards from an image template."},
	{"QR", "/api/qr", "Generate QR codes."},
}

// indexPage lists the tools and the known workspaces.
func indexPage(workspaces []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><title>swisskit</title></head><body><h1>swisskit</h1><h2>Tools</h2><ul>`); err != nil {
			return err
		}
		for _, t := range tools {
			if _, err := fmt.Fprintf(w, `<li><strong>%s</strong> <code>%s</code>: %s</li>`,
				templ.EscapeString(t.Name), templ.EscapeString(t.Path), templ.EscapeString(t.Description)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ul><h2>Workspaces</h2><ul>`); err != nil {
			return err
		}
		if len(workspaces) == 0 {
			if _, err := io.WriteString(w, `<li>none yet</li>`); err != nil {
				return err
			}
		}
		for _, ws := range workspaces {
			if _, err := fmt.Fprintf(w, `<li><a href="/api/%s/players">%s</a></li>`,
				templ.EscapeString(ws), templ.EscapeString(ws)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></body></html>`)
		return err
	})
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.store.Workspaces(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage(workspaces).Render(r.Context(), w); err != nil {
		h.log.Warn("render index", zap.Error(err))
	}
}
