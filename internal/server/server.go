package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/export"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

// Summarizer is what the HTTP layer needs from the pipeline.
type Summarizer interface {
	Run(ctx context.Context, doc extract.Document, req pipeline.Request) (pipeline.Result, error)
}

type Server struct {
	pipe     Summarizer
	exporter *export.Service
	cfg      common.ServerConfig
	logger   *slog.Logger
}

func New(pipe Summarizer, exporter *export.Service, cfg common.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 25
	}
	return &Server{pipe: pipe, exporter: exporter, cfg: cfg, logger: logger}
}

// Router wires every route onto a chi mux.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestContext)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/summarize", s.handleSummarize)
	r.Post("/api/summarize/export", s.handleExport)

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return r
}

// requestContext copies chi's request id into the app context and logs the request.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		if rid := middleware.GetReqID(ctx); rid != "" {
			ctx = common.WithRequestID(ctx, rid)
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		common.LoggerFor(ctx, s.logger).Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {"error": message} with the matching status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := common.AsAppError(err)
	status := ae.HTTPStatus()
	log := common.LoggerFor(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("http.summarize.server_fault", "code", ae.Code, "error", err)
	} else {
		log.Info("http.summarize.client_fault", "code", ae.Code, "error", ae.Message)
	}
	writeJSON(w, status, map[string]string{"error": ae.Message})
}
