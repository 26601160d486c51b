package web

import "net/http"

type adviceRequest struct {
	Query string `json:"query"`
}

type adviceResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	answer, err := s.services.Assistant.Advise(r.Context(), req.Query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, adviceResponse{Answer: answer})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	answer, err := s.services.Assistant.AnalyzeRisk(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, adviceResponse{Answer: answer})
}
