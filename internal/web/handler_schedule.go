package web

import (
	"net/http"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/export"
)

// dueDate reads the optional "date" query parameter, defaulting to today.
func (s *Server) dueDate(r *http.Request) (domain.Date, error) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return s.today(), nil
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, errInvalid(err)
	}
	return d, nil
}

func (s *Server) handleDueItems(w http.ResponseWriter, r *http.Request) {
	day, err := s.dueDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.services.Equipment.DueItems(r.Context(), day)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, items)
}

func (s *Server) handleExportDue(w http.ResponseWriter, r *http.Request) {
	day, err := s.dueDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.services.Equipment.DueItems(r.Context(), day)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeExport(w, r, "due", export.DueWorkOrder(items))
}
