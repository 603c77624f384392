// Package http exposes the determination engine as a JSON API: tree
// introspection, evaluation, stored cases, and the numeric worksheets.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lattice"
	"lattice/internal/presentation/graph"
	"lattice/internal/presentation/report"
	"lattice/pkg/domain"
	"lattice/pkg/worksheet"
)

// Server wires the lattice engine into an HTTP handler.
type Server struct {
	engine  *lattice.Engine
	metrics *Metrics
}

// NewHandler creates the HTTP handler for the engine. Metrics are
// registered on their own registry and served under /metrics.
func NewHandler(engine *lattice.Engine) http.Handler {
	reg := prometheus.NewRegistry()
	s := &Server{
		engine:  engine,
		metrics: NewMetrics(reg),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/trees", s.listTrees)
	r.Get("/trees/{treeID}/graph", s.treeGraph)
	r.Post("/trees/{treeID}/evaluate", s.evaluate)

	r.Get("/cases/{caseID}", s.getCase)
	r.Get("/cases/{caseID}/report", s.caseReport)

	r.Post("/worksheets/capital-gains", s.capitalGains)
	r.Post("/worksheets/qbi", s.qbi)
	r.Post("/worksheets/social-security", s.socialSecurity)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTrees(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.Trees()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": ids})
}

func (s *Server) treeGraph(w http.ResponseWriter, r *http.Request) {
	tree, err := s.engine.Tree(chi.URLParam(r, "treeID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var overlay *graph.Overlay
	if caseID := r.URL.Query().Get("case"); caseID != "" {
		eval, err := s.engine.Case(r.Context(), caseID)
		if err != nil {
			writeError(w, err)
			return
		}
		overlay = graph.OverlayFromTrace(eval.Trace)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(tree, overlay))
}

// evaluateRequest is the evaluation payload: raw facts plus an optional
// case ID to persist the result under.
type evaluateRequest struct {
	Facts  map[string]any `json:"facts"`
	CaseID string         `json:"case_id,omitempty"`
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "treeID")

	var body evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	facts, err := domain.FactsFromMap(body.Facts)
	if err != nil {
		writeError(w, err)
		return
	}

	var eval *domain.Evaluation
	if body.CaseID != "" {
		eval, err = s.engine.EvaluateCase(r.Context(), body.CaseID, treeID, facts)
	} else {
		eval, err = s.engine.Evaluate(treeID, facts)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	s.metrics.Evaluations.WithLabelValues(treeID, string(eval.Outcome)).Inc()
	s.metrics.TraceSteps.WithLabelValues(treeID).Observe(float64(len(eval.Trace)))
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	eval, err := s.engine.Case(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (s *Server) caseReport(w http.ResponseWriter, r *http.Request) {
	eval, err := s.engine.Case(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, report.RenderMarkdown(eval))
}

type capitalGainsRequest struct {
	Items []worksheet.GainLoss `json:"items"`
}

func (s *Server) capitalGains(w http.ResponseWriter, r *http.Request) {
	var body capitalGainsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := worksheet.NetCapitalGains(body.Items...)
	s.metrics.Worksheets.WithLabelValues("capital_gains").Inc()
	writeJSON(w, http.StatusOK, result)
}

type qbiRequest struct {
	FilingStatus string             `json:"filing_status"`
	Input        worksheet.QBIInput `json:"input"`
}

func (s *Server) qbi(w http.ResponseWriter, r *http.Request) {
	var body qbiRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, err := domain.ParseFilingStatus(body.FilingStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	phase, err := s.engine.Table().QBIFor(status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := worksheet.ComputeQBI(body.Input, phase)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.Worksheets.WithLabelValues("qbi").Inc()
	writeJSON(w, http.StatusOK, result)
}

type ssaRequest struct {
	FilingStatus string             `json:"filing_status"`
	Input        worksheet.SSAInput `json:"input"`
}

func (s *Server) socialSecurity(w http.ResponseWriter, r *http.Request) {
	var body ssaRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, err := domain.ParseFilingStatus(body.FilingStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	th, err := s.engine.Table().SSAFor(status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := worksheet.ComputeTaxableSocialSecurity(body.Input, th)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.Worksheets.WithLabelValues("social_security").Inc()
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses: missing content is 404,
// bad input data is 422, structural defects are 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var missing *domain.MissingFactError
	var mismatch *domain.TypeMismatchError
	var negative *domain.NegativeInputError

	switch {
	case errors.Is(err, domain.ErrTreeNotFound), errors.Is(err, domain.ErrEvaluationNotFound):
		status = http.StatusNotFound
	case errors.As(err, &missing), errors.As(err, &mismatch), errors.As(err, &negative):
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
