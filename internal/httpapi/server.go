// Package httpapi assembles the HTTP surface: Connect services, health and
// Prometheus metrics behind a chi router.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/academypay/internal/middleware"
	"github.com/mmynk/academypay/internal/recordstore"
	"github.com/mmynk/academypay/internal/service"
	"github.com/mmynk/academypay/pkg/paymentrpc"
)

// Server is the academypay HTTP server.
type Server struct {
	payments       *service.PaymentService
	roster         *service.RosterService
	ledger         *recordstore.Store
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(payments *service.PaymentService, roster *service.RosterService, ledger *recordstore.Store) *Server {
	return &Server{payments: payments, roster: roster, ledger: ledger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	paymentPath, paymentHandler := paymentrpc.NewPaymentServiceHandler(s.payments, middleware.Interceptors())
	r.Handle(paymentPath+"*", paymentHandler)

	rosterPath, rosterHandler := paymentrpc.NewRosterServiceHandler(s.roster, middleware.Interceptors())
	r.Handle(rosterPath+"*", rosterHandler)

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Records  int    `json:"records"`
	Degraded bool   `json:"persistenceDegraded"`
	Corrupt  bool   `json:"corruptStateLoaded"`
}

// handleHealth reports liveness plus the ledger's persistence state. A
// degraded ledger still serves requests, so the status stays 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Records:  len(s.ledger.Records()),
		Degraded: s.ledger.Degraded(),
		Corrupt:  s.ledger.Corrupt(),
	}
	if resp.Degraded || resp.Corrupt {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		level := slog.LevelInfo
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			level = slog.LevelDebug
		}
		slog.Log(r.Context(), level, "Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"remote_addr", r.RemoteAddr,
			"request_id", chimw.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms, X-Request-Id")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
