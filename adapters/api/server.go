package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gofeat/app"
	"gofeat/domain/core"
	"gofeat/internal"
	"gofeat/internal/config"
	apperrors "gofeat/internal/errors"
	"gofeat/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes ranking runs over HTTP
type Server struct {
	router     *chi.Mux
	service    *app.RankingService
	repository ports.ReportRepository
	config     config.ServerConfig
	logger     *internal.Logger
}

// NewServer creates the HTTP API. repository may be nil, in which case the
// run history endpoints are not mounted.
func NewServer(service *app.RankingService, repository ports.ReportRepository, cfg config.ServerConfig, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NopLogger()
	}
	s := &Server{
		router:     chi.NewRouter(),
		service:    service,
		repository: repository,
		config:     cfg,
		logger:     logger.With("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1/rankings", func(r chi.Router) {
		r.Post("/", s.handleCreateRanking)
		if s.repository != nil {
			r.Get("/", s.handleListRankings)
			r.Get("/{id}", s.handleGetRanking)
			r.Get("/{id}/scores", s.handleGetScores)
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateRanking runs the engine on an inline dataset
func (s *Server) handleCreateRanking(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestBytes)
	}

	var req RankingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	frame, err := req.Frame()
	if err != nil {
		s.writeError(w, err)
		return
	}
	mode, err := req.Mode()
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.service.Run(r.Context(), app.RankingRequest{
		Reader:     ports.StaticFrame(frame),
		Response:   req.Response,
		Predictors: req.Predictors,
		PairMode:   mode,
	})
	if report == nil {
		s.writeError(w, err)
		return
	}
	if err != nil {
		s.logger.Warn("run %s finished but was not fully persisted: %v", report.RunID, err)
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListRankings(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	runs, err := s.repository.ListRuns(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	document, err := s.repository.GetReportJSON(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}

func (s *Server) handleGetScores(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	if _, err := s.repository.GetRun(r.Context(), runID); err != nil {
		s.writeError(w, err)
		return
	}
	scores, err := s.repository.GetScores(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// statusFor maps an error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeInvalidColumn,
		apperrors.CodeValidationError, apperrors.CodeLimitExceeded:
		return http.StatusBadRequest
	case apperrors.CodeDegenerateBinning:
		return http.StatusUnprocessableEntity
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
