// Package httpapi exposes the form engine as a JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/formwright/internal/core/mutation"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
	"github.com/custodia-labs/formwright/internal/logger"
)

// ShutdownTimeout bounds how long in-flight requests may run after shutdown starts.
const ShutdownTimeout = 10 * time.Second

// Config holds the services the API serves.
type Config struct {
	Forms     driving.FormService
	Templates driving.TemplateService

	// NewSession creates a synthesis conversation. Nil disables /sessions.
	NewSession func() driving.GenerationSession

	// SessionIdle is how long an untouched session is kept. Zero means DefaultSessionIdle.
	SessionIdle time.Duration

	// Owner is recorded on forms created from templates.
	Owner string

	// Engine applies structural edits. Nil means a default engine.
	Engine *mutation.Engine
}

// Handler serves the API routes.
type Handler struct {
	forms     driving.FormService
	templates driving.TemplateService
	sessions  *sessionRegistry
	engine    *mutation.Engine
	owner     string
}

// NewHandler creates a handler for cfg.
func NewHandler(cfg Config) *Handler {
	h := &Handler{
		forms:     cfg.Forms,
		templates: cfg.Templates,
		engine:    cfg.Engine,
		owner:     cfg.Owner,
	}
	if h.engine == nil {
		h.engine = mutation.New()
	}
	if cfg.NewSession != nil {
		h.sessions = newSessionRegistry(cfg.NewSession, cfg.SessionIdle, time.Now)
	}
	return h
}

// NewRouter builds the chi router with every route registered.
func NewRouter(cfg Config) http.Handler {
	h := NewHandler(cfg)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/forms", func(r chi.Router) {
			r.Get("/", h.ListForms)
			r.Post("/", h.CreateForm)
			r.Get("/stats", h.FormStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetForm)
				r.Put("/", h.SaveForm)
				r.Patch("/", h.UpdateForm)
				r.Delete("/", h.DeleteForm)
				r.Post("/publish", h.PublishForm)

				r.Post("/sections", h.AddSection)
				r.Post("/sections/move", h.MoveSection)
				r.Patch("/sections/{sectionID}", h.UpdateSection)
				r.Delete("/sections/{sectionID}", h.DeleteSection)

				r.Post("/sections/{sectionID}/fields", h.AddField)
				r.Post("/sections/{sectionID}/fields/move", h.ReorderFields)
				r.Patch("/sections/{sectionID}/fields/{fieldID}", h.UpdateField)
				r.Delete("/sections/{sectionID}/fields/{fieldID}", h.DeleteField)
			})
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/generate", h.GenerateTemplate)
			r.Post("/modify", h.ModifyTemplate)
			r.Post("/accept", h.AcceptTemplate)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Get("/{sessionID}", h.GetSession)
			r.Delete("/{sessionID}", h.DeleteSession)
			r.Post("/{sessionID}/messages", h.SendMessage)
			r.Delete("/{sessionID}/sections/{sectionID}", h.RemoveSessionSection)
			r.Delete("/{sessionID}/sections/{sectionID}/fields/{fieldID}", h.RemoveSessionField)
			r.Post("/{sessionID}/accept", h.AcceptSession)
		})
	})

	return r
}

// Health reports the persistence routing state.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if h.forms == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	health := h.forms.Health()
	writeJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Storage any    `json:"storage"`
	}{Status: "ok", Storage: health})
}

// Serve listens on addr and serves handler until ctx is canceled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serveListener(ctx, ln, handler)
}

func serveListener(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("httpapi: listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		logger.Info("httpapi: shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("httpapi: %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
