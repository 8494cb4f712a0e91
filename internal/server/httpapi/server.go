// Package httpapi exposes the back-office HTTP surface: the public vehicle
// catalogue, the admin API (login, image upload, vehicle CRUD), and the
// session gate in front of everything under /admin.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/dmitrijs2005/motordesk/internal/logging"
	"github.com/dmitrijs2005/motordesk/internal/server/assets"
	"github.com/dmitrijs2005/motordesk/internal/server/config"
	"github.com/dmitrijs2005/motordesk/internal/server/contentstore"
	"github.com/dmitrijs2005/motordesk/internal/server/vehicles"
)

type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	assets   *assets.Service
	vehicles *vehicles.Service
	store    contentstore.Store
	http     *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger, as *assets.Service, vs *vehicles.Service, store contentstore.Store) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger.With("module", "httpapi"),
		assets:   as,
		vehicles: vs,
		store:    store,
	}

	s.http = &http.Server{
		Addr:              cfg.EndpointAddr,
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		// Public catalogue, no auth.
		r.Get("/vehicles", s.listVehicles)
		r.Get("/vehicles/{id}", s.getVehicle)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.login)

			r.Group(func(r chi.Router) {
				r.Use(s.requireSessionAPI)

				r.Post("/logout", s.logout)
				r.Post("/upload-images", s.uploadImages)

				r.Get("/vehicles", s.listVehicles)
				r.Post("/vehicles", s.createVehicle)
				r.Get("/vehicles/{id}", s.getVehicle)
				r.Put("/vehicles/{id}", s.updateVehicle)
				r.Delete("/vehicles/{id}", s.deleteVehicle)

				r.Delete("/assets/{id}", s.deleteAsset)
			})
		})
	})

	// Admin pages. The real UI is rendered by the storefront; these routes
	// exist so the session gate has something to protect and redirect to.
	r.Route("/admin", func(r chi.Router) {
		r.Use(s.gateAdminPages)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/vehicles", http.StatusSeeOther)
		})
		r.Get("/login", s.adminPage("login"))
		r.Get("/vehicles", s.adminPage("vehicles"))
	})

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "starting HTTP server", "address", s.cfg.EndpointAddr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return s.http.Close()
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) adminPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><title>motordesk admin</title><div id=\"app\" data-page=\"" + name + "\"></div>"))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
