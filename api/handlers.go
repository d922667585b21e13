package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/abuharish02/Lead-gen-ai-backend/analyzer"
	"github.com/abuharish02/Lead-gen-ai-backend/bulk"
	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"go.uber.org/zap"
)

type analyzeRequest struct {
	URL string `json:"url"`
}

type outreachRequest struct {
	Analysis     *analyzer.AnalysisRecord `json:"analysis"`
	TemplateType string                   `json:"template_type"`
}

type proposalRequest struct {
	Analysis     *analyzer.AnalysisRecord `json:"analysis"`
	ServiceFocus string                   `json:"service_focus"`
}

type enhanceRequest struct {
	Analysis *analyzer.AnalysisRecord `json:"analysis"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	rec, err := s.analyzer.Analyze(r.Context(), bulk.NormalizeURL(req.URL))
	if err != nil {
		s.logger.Warn("analysis failed", zap.String("url", req.URL), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) outreachHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req outreachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.Analysis == nil {
		writeError(w, http.StatusBadRequest, "missing analysis")
		return
	}
	msg, err := s.analyzer.GenerateOutreach(r.Context(), req.Analysis, req.TemplateType)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) proposalHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req proposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.Analysis == nil {
		writeError(w, http.StatusBadRequest, "missing analysis")
		return
	}
	doc, err := s.analyzer.GenerateProposal(r.Context(), req.Analysis, req.ServiceFocus)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) enhanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.Analysis == nil {
		writeError(w, http.StatusBadRequest, "missing analysis")
		return
	}
	rec, err := s.analyzer.EnhanceAnalysis(r.Context(), req.Analysis)
	if err != nil {
		// rec is the original analysis when enhancement fails
		s.logger.Warn("enhancement failed, returning original", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) bulkSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req bulk.URLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	job, err := s.coordinator.Submit(r.Context(), req.URLs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, job.Report())
}

func (s *Server) bulkStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := r.URL.Query().Get("job_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job_id parameter")
		return
	}
	report, err := s.coordinator.Status(id)
	if err != nil {
		if errors.Is(err, bulk.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) bulkResultsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := r.URL.Query().Get("job_id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job_id parameter")
		return
	}
	job, err := s.coordinator.Job(id)
	if err != nil {
		if errors.Is(err, bulk.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) knowledgeStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, "knowledge base not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) knowledgeAddHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, "knowledge base not configured")
		return
	}
	var item knowledge.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(item.Content) == "" {
		writeError(w, http.StatusBadRequest, "missing content")
		return
	}
	if err := s.store.AddItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.store.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
