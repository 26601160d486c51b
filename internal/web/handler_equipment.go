package web

import (
	"net/http"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/service"
)

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	list, err := s.services.Equipment.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleGetEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := s.services.Equipment.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

func (s *Server) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	var in service.EquipmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.services.Equipment.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var in service.EquipmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.services.Equipment.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Equipment.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeTaskResponse struct {
	Equipment *domain.Equipment     `json:"equipment"`
	Record    *domain.ServiceRecord `json:"record"`
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var c service.Completion
	if err := decodeJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, rec, err := s.services.Equipment.CompleteTask(r.Context(), r.PathValue("id"), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, completeTaskResponse{Equipment: e, Record: rec})
}
