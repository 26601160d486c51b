package web

import (
	"net/http"

	"github.com/vbonduro/lubetrack/internal/export"
	"github.com/vbonduro/lubetrack/internal/service"
)

func recordFilter(r *http.Request) service.RecordFilter {
	q := r.URL.Query()
	return service.RecordFilter{EquipmentID: q.Get("equipment_id"), Query: q.Get("q")}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Records.History(r.Context(), recordFilter(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, views)
}

func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	views, err := s.services.Records.History(r.Context(), recordFilter(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeExport(w, r, "history", export.History(views))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in service.RecordInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.services.Records.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var edit service.RecordEdit
	if err := decodeJSON(w, r, &edit); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.services.Records.Update(r.Context(), r.PathValue("id"), edit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Records.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
