package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/server/models"
)

func (s *Server) listVehicles(w http.ResponseWriter, r *http.Request) {
	list, err := s.vehicles.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "listing vehicles", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) getVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.vehicles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.vehicleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) createVehicle(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.vehicles.Create(r.Context(), &v)
	if err != nil {
		s.vehicleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateVehicle(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	v.ID = chi.URLParam(r, "id")

	updated, err := s.vehicles.Update(r.Context(), &v)
	if err != nil {
		s.vehicleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.vehicles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.vehicleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) vehicleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(w, http.StatusNotFound, "vehicle not found")
	case errors.Is(err, common.ErrorValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(r.Context(), "vehicle operation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
