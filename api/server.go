package api

import (
	"net/http"
	"strconv"

	"github.com/abuharish02/Lead-gen-ai-backend/analyzer"
	"github.com/abuharish02/Lead-gen-ai-backend/bulk"
	"github.com/abuharish02/Lead-gen-ai-backend/knowledge"
	"go.uber.org/zap"
)

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	analyzer    *analyzer.Analyzer
	coordinator *bulk.Coordinator
	store       *knowledge.Store
	logger      *zap.Logger
	port        int
}

// NewServer wires the API server. store may be nil when no knowledge base
// is configured; the knowledge endpoints then return 404.
func NewServer(an *analyzer.Analyzer, coord *bulk.Coordinator, store *knowledge.Store, logger *zap.Logger, port int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		analyzer:    an,
		coordinator: coord,
		store:       store,
		logger:      logger,
		port:        port,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/analyze", s.analyzeHandler)
	mux.HandleFunc("/api/outreach", s.outreachHandler)
	mux.HandleFunc("/api/proposal", s.proposalHandler)
	mux.HandleFunc("/api/enhance", s.enhanceHandler)
	mux.HandleFunc("/api/bulk/urls", s.bulkSubmitHandler)
	mux.HandleFunc("/api/bulk/status", s.bulkStatusHandler)
	mux.HandleFunc("/api/bulk/results", s.bulkResultsHandler)
	mux.HandleFunc("/api/knowledge/stats", s.knowledgeStatsHandler)
	mux.HandleFunc("/api/knowledge/items", s.knowledgeAddHandler)

	return mux
}

// Start blocks serving HTTP on the configured port.
func (s *Server) Start() error {
	addr := ":" + strconv.Itoa(s.port)
	s.logger.Info("starting API server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}
