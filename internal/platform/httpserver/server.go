package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	reconciliationengine "councilwatch/contexts/legislation/reconciliation-engine"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	httptransport "councilwatch/contexts/legislation/reconciliation-engine/transport/http"
)

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	addr           string
	reconciliation reconciliationengine.Module
}

func New(reconciliation reconciliationengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		addr:           addr,
		reconciliation: reconciliation,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /v1/proposals/import", s.handleImportProposals)
	s.mux.HandleFunc("POST /v1/judgments/match-groups", s.handleMatchGroups)
	s.mux.HandleFunc("POST /v1/judgments/expand", s.handleExpand)
	s.mux.HandleFunc("POST /v1/proposals/{proposal_id}/roll-call", s.handleApplyRollCall)
	s.mux.HandleFunc("GET /v1/proposals/{proposal_id}/defections", s.handleDefectionReport)
	s.mux.HandleFunc("POST /v1/proposals/{proposal_id}/submitters", s.handleRegisterSubmitters)
	s.mux.HandleFunc("GET /v1/judgments/review-queue", s.handleReviewQueue)
	s.mux.HandleFunc("POST /v1/judgments/extracted/{extracted_id}/resolve", s.handleResolveMatch)
}

func (s *Server) handleImportProposals(w http.ResponseWriter, r *http.Request) {
	var req httptransport.ImportProposalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.reconciliation.Handler.ImportProposalsHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMatchGroups(w http.ResponseWriter, r *http.Request) {
	var req httptransport.MatchGroupJudgmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.reconciliation.Handler.MatchGroupJudgmentsHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req httptransport.ExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.reconciliation.Handler.ExpandHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApplyRollCall(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposal_id")
	var req httptransport.ApplyRollCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.reconciliation.Handler.ApplyRollCallHandler(r.Context(), proposalID, req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDefectionReport(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposal_id")
	resp, err := s.reconciliation.Handler.DefectionReportHandler(r.Context(), proposalID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterSubmitters(w http.ResponseWriter, r *http.Request) {
	proposalID := r.PathValue("proposal_id")
	var req httptransport.RegisterSubmittersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	req.ProposalID = proposalID
	resp, err := s.reconciliation.Handler.RegisterSubmittersHandler(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("governing_body_id")
	governingBodyID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_governing_body", "governing_body_id must be an integer")
		return
	}
	resp, err := s.reconciliation.Handler.ReviewQueueHandler(r.Context(), governingBodyID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveMatch(w http.ResponseWriter, r *http.Request) {
	extractedID := r.PathValue("extracted_id")
	var req httptransport.ResolveMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := s.reconciliation.Handler.ResolveMatchHandler(r.Context(), extractedID, req); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, domainerrors.ErrDataIntegrity):
		writeError(w, http.StatusBadRequest, "data_integrity", err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, httptransport.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
