package api

import (
	"encoding/json"
	"net/http"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/pipeline"
)

// analyzeRequest is the JSON body of POST /api/analyze. Optional fields
// fall back to the request defaults.
type analyzeRequest struct {
	Input      string `json:"input"`
	Kind       string `json:"type"`
	Audience   string `json:"audience"`
	Language   string `json:"language"`
	Format     string `json:"format"`
	SaveReport *bool  `json:"save_report"`
}

func (a analyzeRequest) toCore() core.AnalysisRequest {
	kind := core.InputKind(a.Kind)
	if a.Kind == "" {
		kind = core.InputText
	}
	req := core.NewAnalysisRequest(a.Input, kind)
	if a.Audience != "" {
		req.Audience = core.Audience(a.Audience)
	}
	if a.Language != "" {
		req.Language = core.Language(a.Language)
	}
	if a.Format != "" {
		req.Format = core.ReportFormat(a.Format)
	}
	if a.SaveReport != nil {
		req.SaveReport = *a.SaveReport
	}
	return req
}

// handleAnalyze runs the full pipeline synchronously and responds with
// the run envelope. The envelope shape is identical for success and
// failure; the HTTP status only distinguishes malformed requests.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	run := s.orchestrator.Run(r.Context(), body.toCore())
	envelope := pipeline.BuildEnvelope(run)

	status := http.StatusOK
	if !envelope.Success {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, envelope)
}

// handleStatus reports accumulated run counters and the stage sequence.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.orchestrator.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
