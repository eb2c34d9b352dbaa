// Package api exposes the sweep engine over HTTP: submit a sweep request,
// fetch or list stored results. JSON in, JSON out.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gopower/app"
	"gopower/domain/core"
	"gopower/internal"
	apperrors "gopower/internal/errors"
	"gopower/ports"
)

// Server routes sweep requests to the sweep service.
type Server struct {
	router     *chi.Mux
	service    *app.SweepService
	repository ports.SweepRepository
	logger     *internal.Logger
}

// NewServer creates the HTTP surface over a sweep service. The repository may
// be nil; list/fetch endpoints then report not found.
func NewServer(service *app.SweepService, repository ports.SweepRepository) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		service:    service,
		repository: repository,
		logger:     internal.NewComponentLogger("API"),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Post("/sweeps", s.handleRunSweep)
	s.router.Get("/sweeps", s.handleListSweeps)
	s.router.Get("/sweeps/{sweepID}", s.handleGetSweep)

	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleRunSweep(w http.ResponseWriter, r *http.Request) {
	var req app.SweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed sweep request: "+err.Error()))
		return
	}

	result, err := s.service.RunSweep(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.GetCode(err) == apperrors.CodeConfigInvalid {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetSweep(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseSweepID(chi.URLParam(r, "sweepID"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.service.GetSweep(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.GetCode(err) == apperrors.CodeNotFound {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListSweeps(w http.ResponseWriter, r *http.Request) {
	if s.repository == nil {
		s.writeJSON(w, http.StatusOK, []interface{}{})
		return
	}
	manifests, err := s.repository.ListSweeps(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, manifests)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed (%d): %v", status, err)
	s.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
