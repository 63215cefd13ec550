// Package server exposes the decision pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Muqadas1234/compliance-policy-ai/internal/alert"
	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
	"github.com/Muqadas1234/compliance-policy-ai/internal/metrics"
)

// maxBodyBytes caps an evaluate request body.
const maxBodyBytes = 10 << 20

// Config holds HTTP server configuration.
type Config struct {
	Listen     string
	ConfigPath string
}

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	Document   string `json:"document"`
	Candidates []any  `json:"candidates"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// Server serves evaluations and swaps configuration on reload.
type Server struct {
	cfg     Config
	engine  *decision.Engine
	metrics *metrics.Collector
	logger  *slog.Logger

	mu         sync.RWMutex
	dispatcher *alert.Dispatcher
	retired    sync.WaitGroup // dispatchers replaced by Reload, still draining

	httpServer *http.Server
}

// New creates a server around an engine whose config was loaded from
// cfg.ConfigPath. Alert destinations come from the engine's config.
func New(cfg Config, engine *decision.Engine, m *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewCollector(nil)
	}
	current, _ := engine.Config()

	s := &Server{
		cfg:        cfg,
		engine:     engine,
		metrics:    m,
		logger:     logger,
		dispatcher: alert.NewDispatcher(current.Alerts, logger),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// Serve listens on the configured address. Blocks until ctx is cancelled,
// then shuts down gracefully and waits for in-flight alerts.
func (s *Server) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.ServeOn(ctx, lis)
}

// ServeOn serves on the given listener. For testing.
func (s *Server) ServeOn(ctx context.Context, lis net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- s.httpServer.Serve(lis) }()
	s.logger.Info("compliance server listening", "addr", lis.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(shutdownCtx)
	s.waitAlerts()
	return err
}

// Reload re-reads the config file and swaps it into the engine and the
// alert dispatcher. A bad file leaves the running config in place.
// Called by the hot-reloader on file change.
func (s *Server) Reload() error {
	cfg, hash, err := decision.LoadConfigWithHash(s.cfg.ConfigPath)
	if err != nil {
		s.metrics.RecordReload(false)
		return fmt.Errorf("failed to reload config: %w", err)
	}
	if err := s.engine.SetConfig(cfg, hash); err != nil {
		s.metrics.RecordReload(false)
		return err
	}

	s.mu.Lock()
	old := s.dispatcher
	s.dispatcher = alert.NewDispatcher(cfg.Alerts, s.logger)
	s.mu.Unlock()
	if old != nil {
		s.retired.Add(1)
		go func() {
			defer s.retired.Done()
			old.Wait()
		}()
	}

	s.metrics.RecordReload(true)
	s.logger.Info("config reloaded", "path", s.cfg.ConfigPath, "config_hash", hash)
	return nil
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", requestID)

	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error(), RequestID: requestID})
		return
	}

	bundle, err := s.engine.RunMaps(r.Context(), req.Document, req.Candidates)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		s.logger.Warn("evaluate failed", "request_id", requestID, "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID})
		return
	}

	s.dispatch(r.Context(), eventFor(bundle, requestID, bundle.ConfigHash))

	s.logger.Info("evaluated",
		"request_id", requestID,
		"decision", bundle.Decision,
		"score", bundle.Score,
		"findings", len(bundle.PolicyFindings),
	)
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, hash := s.engine.Config()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "config_hash": hash})
}

func (s *Server) dispatch(ctx context.Context, event alert.Event) {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d != nil {
		d.Dispatch(ctx, event)
	}
}

func (s *Server) waitAlerts() {
	s.mu.RLock()
	d := s.dispatcher
	s.mu.RUnlock()
	if d != nil {
		d.Wait()
	}
	s.retired.Wait()
}

func eventFor(b *decision.Bundle, requestID, configHash string) alert.Event {
	violations := []string{}
	for _, f := range b.PolicyFindings {
		if f.PossibleViolation {
			violations = append(violations, f.ViolationEntry())
		}
	}
	return alert.Event{
		Timestamp:   time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		RequestID:   requestID,
		Decision:    string(b.Decision),
		Score:       b.Score,
		Violations:  violations,
		Explanation: b.Explanation,
		ConfigHash:  configHash,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
