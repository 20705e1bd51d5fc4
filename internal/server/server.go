// Package server exposes the reimbursement engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/reimburse/internal/batch"
	"github.com/iwvelando/reimburse/internal/reimbursement"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/iwvelando/reimburse/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options tunes the handler returned by NewHandler.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	Workers        int
}

type handler struct {
	logger        *zap.Logger
	engine        *reimbursement.Engine
	maxUploadSize int64
	version       string
	workers       int
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// NewHandler constructs the HTTP handler that serves the reimbursement API.
func NewHandler(logger *zap.Logger, engine *reimbursement.Engine, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = reimbursement.NewDefault(logger)
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		engine:        engine,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		workers:       opts.Workers,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/reimbursement", h.handleReimbursement)
		r.Post("/reimbursement/batch", h.handleBatch)
		r.Get("/rules", h.handleRules)
		r.Get("/version", h.handleVersion)
	})

	return r
}

// requestLogger logs one line per request with the chi request ID.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request served",
				zap.String("op", "server.request"),
				zap.String("requestId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func (h *handler) handleReimbursement(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var args []string
	for _, key := range []string{"days", "miles", "receipts"} {
		if query.Has(key) {
			args = append(args, query.Get(key))
		}
	}

	trip, err := reimbursement.ParseTrip(args)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err, "server.handleReimbursement")
		return
	}

	result := h.engine.Evaluate(trip)
	h.writeJSON(w, http.StatusOK, output.NewResultDocument(result))
}

func (h *handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	cases, err := batch.Load(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds limit of %d bytes", h.maxUploadSize), "server.handleBatch")
			return
		}
		h.respondError(w, r, http.StatusBadRequest, err, "server.handleBatch")
		return
	}

	outcomes, err := batch.Evaluate(r.Context(), h.logger, h.engine, cases, h.workers)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		h.respondError(w, r, status, err, "server.handleBatch")
		return
	}

	summary := batch.Summarize(outcomes)
	h.logger.Info("batch evaluated",
		zap.String("op", "server.handleBatch"),
		zap.Int("cases", summary.Count),
		zap.Int("failed", summary.Failed),
	)
	h.writeJSON(w, http.StatusOK, output.NewBatchDocument(outcomes, summary))
}

// handleRules returns the effective rule table as JSON, or as YAML when
// format=yaml is requested.
func (h *handler) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := h.engine.Rules()

	if r.URL.Query().Get("format") == "yaml" {
		data, err := yaml.Marshal(rules)
		if err != nil {
			h.respondError(w, r, http.StatusInternalServerError, err, "server.handleRules")
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	h.writeJSON(w, http.StatusOK, rules)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, err error, op string) {
	kind := reimbursement.KindOf(err)
	h.logger.Warn("request failed",
		zap.String("op", op),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	h.writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts the
// server down gracefully.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	logger.Info("server shutting down", zap.String("op", "server.Run"))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
