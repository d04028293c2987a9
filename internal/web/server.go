// Package web serves the swisskit tools over HTTP: a small HTML index and a
// JSON API scoped by workspace.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	requestTimeout    = 2 * time.Minute

	// maxUpload bounds multipart bodies (workbooks, images, fonts).
	maxUpload = 32 << 20
)

// Options configures the handler.
type Options struct {
	// SummaryTop is the default number of players counted per team.
	SummaryTop int
	// CardTemplate is a template image used when a workspace has none.
	CardTemplate string
}

// Server hosts the HTTP API.
type Server struct {
	addr       string
	httpServer *http.Server
	log        *zap.Logger
}

type handler struct {
	store *store.Store
	log   *zap.Logger
	opts  Options
	tmpl  *swisskit.Context
}

// NewHandler builds the router.
func NewHandler(st *store.Store, log *zap.Logger, opts Options) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SummaryTop < 1 {
		opts.SummaryTop = swisskit.DefaultTop
	}
	h := &handler{store: st, log: log, opts: opts, tmpl: swisskit.NewContext()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", h.index)

	r.Route("/api", func(r chi.Router) {
		r.Post("/qr", h.qrCode)
		r.Post("/import/sheets", h.importSheets)

		r.Route("/{ws}", func(r chi.Router) {
			r.Use(workspaceOnly)

			r.Get("/players", h.getPlayers)
			r.Post("/players", h.postPlayers)
			r.Delete("/players", h.deletePlayers)
			r.Post("/players/fill-group", h.fillGroup)
			r.Post("/players/fill-team", h.fillFromTeams(swisskit.FillTeam))
			r.Post("/players/fill-club", h.fillFromTeams(swisskit.FillClub))
			r.Post("/players/fill-federation", h.fillFromTeams(swisskit.FillFederation))

			r.Get("/teams", h.getTeams)
			r.Post("/teams", h.postTeams)
			r.Post("/teams/from-players", h.teamsFromPlayers)

			r.Get("/export/players.xml", h.exportPlayersXML)
			r.Get("/export/teams.xml", h.exportTeamsXML)
			r.Get("/export/players.xlsx", h.exportPlayersXLSX)

			r.Post("/import", h.importRoster)

			r.Get("/results", h.getResults)
			r.Post("/results", h.postResults)
			r.Post("/results/convert", h.convertResults)
			r.Get("/aliases", h.getAliases)
			r.Post("/aliases", h.postAliases)
			r.Get("/summary", h.summary)
			r.Get("/summary.xlsx", h.summaryXLSX)

			r.Get("/cards/config", h.getCardConfig)
			r.Post("/cards/config", h.postCardConfig)
			r.Post("/cards/template", h.uploadAsset(store.CardTemplate))
			r.Post("/cards/font", h.uploadAsset(store.CardFont))
			r.Get("/cards/preview", h.cardPreview)
			r.Get("/cards/{id}.png", h.cardPNG)
			r.Get("/cards.zip", h.cardsZip)
		})
	})
	return r
}

// New builds a server listening on addr.
func New(addr string, st *store.Store, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		addr: addr,
		log:  log,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(st, log, opts),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}

	serveErr := make(chan error, 1)
	s.log.Info("listening", zap.String("addr", s.addr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
