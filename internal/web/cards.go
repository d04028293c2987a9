package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/card"
	"github.com/javajack/swisskit/internal/store"
)

func (h *handler) loadCardConfig(ctx context.Context, ws string) (card.Config, error) {
	var cfg card.Config
	err := h.store.Load(ctx, ws, store.CardConfig, &cfg)
	if errors.Is(err, store.ErrNotFound) {
		return card.DefaultConfig(), nil
	}
	return cfg, err
}

func (h *handler) getCardConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loadCardConfig(r.Context(), workspace(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if card.Format(r.URL.Query().Get("format")) == card.FormatYAML {
		data, err := card.Encode(cfg, card.FormatYAML)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		download(w, "application/yaml", "card.yaml", data)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// postCardConfig merges the posted document (JSON, or YAML by content type
// or ?format=yaml) into the current config.
func (h *handler) postCardConfig(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
	if err != nil {
		h.fail(w, r, badRequest("read body: %v", err))
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	format := card.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") || r.URL.Query().Get("format") == "yaml" {
		format = card.FormatYAML
	}

	ws := workspace(r)
	current, err := h.loadCardConfig(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cfg, err := card.Merge(data, format, current)
	if err != nil {
		h.fail(w, r, badRequest("%v", err))
		return
	}
	if err := cfg.Validate(); err != nil {
		h.fail(w, r, badRequest("%v", err))
		return
	}
	if err := h.store.Save(r.Context(), ws, store.CardConfig, cfg); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type assetResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// uploadAsset stores a card template image or font. A font also becomes
// the font of the workspace's card config.
func (h *handler) uploadAsset(kind store.AssetKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			h.fail(w, r, badRequest("invalid upload: %v", err))
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			h.fail(w, r, badRequest("missing file: %v", err))
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			h.fail(w, r, badRequest("read upload: %v", err))
			return
		}

		switch kind {
		case store.CardTemplate:
			if _, err := card.LoadTemplate(bytes.NewReader(data)); err != nil {
				h.fail(w, r, badRequest("%v", err))
				return
			}
		case store.CardFont:
			if _, err := card.ParseFont(data); err != nil {
				h.fail(w, r, badRequest("%v", err))
				return
			}
		}

		ws := workspace(r)
		a, err := h.store.SaveAsset(r.Context(), ws, kind, hdr.Filename, bytes.NewReader(data))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if kind == store.CardFont {
			cfg, err := h.loadCardConfig(r.Context(), ws)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			cfg.Settings.Font = h.store.AssetPath(a)
			if err := h.store.Save(r.Context(), ws, store.CardConfig, cfg); err != nil {
				h.fail(w, r, err)
				return
			}
		}
		h.log.Info("asset saved", zap.String("workspace", ws), zap.String("kind", string(kind)), zap.String("id", a.ID))
		writeJSON(w, http.StatusCreated, assetResponse{ID: a.ID, Filename: a.Filename})
	}
}

// templateImage returns the workspace's latest template, or the configured
// fallback file.
func (h *handler) templateImage(ctx context.Context, ws string) (image.Image, error) {
	rc, _, err := h.store.OpenAsset(ctx, ws, store.CardTemplate)
	switch {
	case err == nil:
		defer rc.Close()
		return card.LoadTemplate(rc)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	case h.opts.CardTemplate == "":
		return nil, card.ErrNoTemplate
	}
	f, err := os.Open(h.opts.CardTemplate)
	if err != nil {
		return nil, fmt.Errorf("open card template: %w", err)
	}
	defer f.Close()
	return card.LoadTemplate(f)
}

func (h *handler) renderer(ctx context.Context, ws string) (*card.Renderer, error) {
	cfg, err := h.loadCardConfig(ctx, ws)
	if err != nil {
		return nil, err
	}
	img, err := h.templateImage(ctx, ws)
	if err != nil {
		return nil, err
	}
	return card.NewRenderer(img, cfg, card.WithTemplateContext(h.tmpl))
}

func (h *handler) player(ctx context.Context, ws, id string) (swisskit.Row, error) {
	rows, err := h.loadRoster(ctx, ws)
	if err != nil {
		return nil, err
	}
	row, ok := rows.ByID(id)
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	return row, nil
}

// cardPreview renders a JPEG preview; id 0 (or none) shows the layout guides.
func (h *handler) cardPreview(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	rend, err := h.renderer(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var row swisskit.Row
	if id := r.URL.Query().Get("id"); id != "" && id != "0" {
		if row, err = h.player(r.Context(), ws, id); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	var buf bytes.Buffer
	if err := rend.Preview(&buf, row); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(buf.Bytes())
}

func (h *handler) cardPNG(w http.ResponseWriter, r *http.Request) {
	ws := workspace(r)
	id := chi.URLParam(r, "id")
	row, err := h.player(r.Context(), ws, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rend, err := h.renderer(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := rend.RenderPNG(&buf, row); err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, "image/png", card.FileName(id), buf.Bytes())
}

func (h *handler) cardsZip(w http.ResponseWriter, r *http.Request) {
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
	rend, err := h.renderer(r.Context(), ws)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := rend.RenderAll(r.Context(), &buf, rows); err != nil {
		h.fail(w, r, err)
		return
	}
	download(w, "application/zip", card.ZipFileName, buf.Bytes())
}
