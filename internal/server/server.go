// Package server serves tool calls over HTTP.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/jcrpanta/density-areas/internal/config"
	"github.com/jcrpanta/density-areas/internal/tools"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

// New builds the route table. log may be nil.
func New(cfg config.ServerConfig, h *tools.Handler, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = config.DefaultConfig().Server.MaxBodyBytes
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/tool", func(w http.ResponseWriter, r *http.Request) {
		id := requestID(w, r)
		reqLog := log.With("request_id", id)
		defer func() {
			if rec := recover(); rec != nil {
				reqLog.Error("tool.panic", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		defer r.Body.Close()

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req tools.Request
		if err := dec.Decode(&req); err != nil {
			reqLog.Warn("tool.bad_request", "err", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if dec.More() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
			return
		}

		start := time.Now()
		resp := h.Handle(req)
		attrs := []any{"tool", req.Tool, "duration_ms", time.Since(start).Milliseconds()}
		if resp.Error != "" {
			reqLog.Info("tool.failed", append(attrs, "err", resp.Error)...)
		} else {
			reqLog.Info("tool.done", attrs...)
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		requestID(w, r)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tools.Spec())
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		requestID(w, r)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return mux
}

// NewHTTPServer wraps handler with the configured timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout.Duration(),
		WriteTimeout:      cfg.WriteTimeout.Duration(),
		IdleTimeout:       60 * time.Second,
	}
}

// requestID echoes a valid client id or assigns a fresh one.
func requestID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
