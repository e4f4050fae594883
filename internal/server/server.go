// Package server exposes the connectivity queries of one board over HTTP.
//
// All queries share one adapter, so repeated questions about the same
// corporation are answered from memoized results until the corporation
// (or every corporation) is cleared. Adapter access is serialized by a
// single mutex.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/trackgraph/pkg/adapter"
	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/errors"
	"github.com/matzehuels/trackgraph/pkg/pipeline"
	"github.com/matzehuels/trackgraph/pkg/render"
	"github.com/matzehuels/trackgraph/pkg/report"
)

// RequestIDHeader carries the server-side request ID.
const RequestIDHeader = "X-Request-ID"

// Server answers connectivity queries for a single board.
type Server struct {
	board   *board.Board
	runner  *pipeline.Runner
	opts    pipeline.Options
	logger  *log.Logger
	metrics *Metrics

	mu      sync.Mutex
	adapter *adapter.Adapter
}

// New creates a server for b. opts carries the search flags applied to
// every query; its Corporation is ignored.
func New(b *board.Board, runner *pipeline.Runner, opts pipeline.Options) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	opts.Logger = logger
	return &Server{
		board:   b,
		runner:  runner,
		opts:    opts,
		logger:  logger,
		metrics: NewMetrics(),
		adapter: adapter.New(b, b, opts.AdapterOptions()),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.metrics.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/corporations", s.corporations)
	r.Post("/clear", s.clearAll)

	r.Route("/corporations/{corp}", func(r chi.Router) {
		r.Use(s.corporation)
		r.Get("/report", s.report)
		r.Get("/route", s.route)
		r.Get("/can-token", s.canToken)
		r.Get("/tokenable", s.tokenable)
		r.Get("/hexes", s.hexes)
		r.Get("/nodes", s.nodes)
		r.Get("/render", s.render)
		r.Post("/clear", s.clear)

		r.Get("/home-hexes", s.homeHexes)
		r.Get("/tokens/{node}/hexes", s.tokenHexes)
	})
	return r
}

// Metrics returns the server's collectors. Register them with the
// observability package to count searches, queries and cache traffic.
func (s *Server) Metrics() *Metrics { return s.metrics }

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const (
	requestIDKey ctxKey = iota
	corpKey
)

// requestID always generates a fresh server-side UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", requestIDFrom(r.Context()))
	})
}

// corporation resolves {corp} and answers 404 for unknown corporations.
func (s *Server) corporation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corp := chi.URLParam(r, "corp")
		if err := errors.ValidateCorporationID(corp); err != nil {
			s.fail(w, r, err)
			return
		}
		if _, ok := s.board.Corporation(board.CorpID(corp)); !ok {
			s.fail(w, r, errors.New(errors.ErrCodeCorporationNotFound, "unknown corporation: %s", corp))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), corpKey, board.CorpID(corp))))
	})
}

func corpFrom(r *http.Request) board.CorpID {
	corp, _ := r.Context().Value(corpKey).(board.CorpID)
	return corp
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", requestIDFrom(r.Context()))
	}
	writeJSON(w, status, map[string]errorBody{"error": {
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	}})
}

// locked runs fn with exclusive access to the adapter.
func (s *Server) locked(fn func(a *adapter.Adapter)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.adapter)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "board": s.board.Digest()})
}

func (s *Server) corporations(w http.ResponseWriter, r *http.Request) {
	type corpInfo struct {
		ID        string `json:"id"`
		Name      string `json:"name,omitempty"`
		Available int    `json:"available_tokens"`
	}
	var out []corpInfo
	for _, id := range s.board.Corporations() {
		c, _ := s.board.Corporation(id)
		out = append(out, corpInfo{ID: string(id), Name: c.Name, Available: s.board.AvailableTokens(id)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	opts.Corporation = string(corpFrom(r))
	opts.Refresh = r.URL.Query().Get("refresh") == "true"

	rep, hit, err := s.runner.ReportWithCacheInfo(r.Context(), s.board, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	var info any
	s.locked(func(a *adapter.Adapter) { info = a.RouteInfo(corpFrom(r)) })
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) canToken(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := adapter.CanTokenOpts{
		Cheater:        q.Get("cheater") == "true",
		SameHexAllowed: q.Get("same_hex") == "true",
	}
	if v := q.Get("tokens"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid tokens: %q", v))
			return
		}
		opts.Tokens = n
	}

	var ok bool
	s.locked(func(a *adapter.Adapter) { ok = a.CanToken(corpFrom(r), opts) })
	writeJSON(w, http.StatusOK, map[string]bool{"can_token": ok})
}

func (s *Server) tokenable(w http.ResponseWriter, r *http.Request) {
	var out []report.NodeRef
	s.locked(func(a *adapter.Adapter) { out = report.NodeRefs(s.board, a.TokenableCities(corpFrom(r))) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) hexes(w http.ResponseWriter, r *http.Request) {
	var out []report.HexEdges
	s.locked(func(a *adapter.Adapter) { out = report.HexEdgesOf(s.board, a.ConnectedHexes(corpFrom(r))) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) nodes(w http.ResponseWriter, r *http.Request) {
	var out []report.NodeRef
	s.locked(func(a *adapter.Adapter) { out = report.NodeRefs(s.board, a.ConnectedNodes(corpFrom(r))) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := s.opts
	opts.Corporation = string(corpFrom(r))
	opts.Detailed = q.Get("detailed") == "true"
	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	opts.Formats = []string{format}
	if v := q.Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid step: %q", v))
			return
		}
		opts.Step = n
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), s.board, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

var contentTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz",
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatPDF: "application/pdf",
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	s.locked(func(a *adapter.Adapter) { a.ClearGraphFor(corpFrom(r)) })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearAll(w http.ResponseWriter, r *http.Request) {
	s.locked(func(a *adapter.Adapter) { a.Clear() })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) homeHexes(w http.ResponseWriter, r *http.Request) {
	var err error
	s.locked(func(a *adapter.Adapter) { _, err = a.HomeHexes(corpFrom(r)) })
	s.fail(w, r, err)
}

func (s *Server) tokenHexes(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "node"))
	if err != nil || n < 0 || n >= s.board.NumNodes() {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid node: %q", chi.URLParam(r, "node")))
		return
	}
	s.locked(func(a *adapter.Adapter) { _, err = a.ConnectedHexesByToken(corpFrom(r), board.NodeID(n)) })
	s.fail(w, r, err)
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
