package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/kjannette/fourmeme-abis/internal/models"
)

const maxQueryLimit = 1000

// SnapshotReader serves ABI history. *repository.SnapshotRepo satisfies it.
type SnapshotReader interface {
	GetLatest(ctx context.Context, name string) (*models.ABISnapshot, error)
	GetHistory(ctx context.Context, name string, limit int) ([]models.ABISnapshot, error)
}

// Reloader rebuilds the registry on demand. *scheduler.ReloadScheduler
// satisfies it.
type Reloader interface {
	ReloadNow(ctx context.Context) ([]abis.Name, error)
}

// Pinger reports database health. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Port       int
	APIKey     string
	CORSOrigin string

	// Registry returns the registry in effect; defaults to abis.Default.
	Registry func() *abis.Registry
	// Snapshots and DB are nil when persistence is disabled.
	Snapshots SnapshotReader
	DB        Pinger
	// Reloader is nil when the reload endpoint is disabled.
	Reloader Reloader
}

type Server struct {
	registry   func() *abis.Registry
	snapshots  SnapshotReader
	db         Pinger
	reloader   Reloader
	metrics    *metrics
	handler    http.Handler
	httpServer *http.Server
	apiKey     string
}

func NewServer(opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = abis.Default
	}
	s := &Server{
		registry:  reg,
		snapshots: opts.Snapshots,
		db:        opts.DB,
		reloader:  opts.Reloader,
		metrics:   newMetrics(),
		apiKey:    opts.APIKey,
	}

	mux := http.NewServeMux()

	// ABI routes
	mux.HandleFunc("GET /v1/abis", s.handleListABIs)
	mux.HandleFunc("GET /v1/abis/{name}", s.handleGetABI)
	mux.HandleFunc("GET /v1/abis/{name}/fragments", s.handleFragments)
	mux.HandleFunc("GET /v1/abis/{name}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/abis/{name}/history/latest", s.handleLatest)
	mux.HandleFunc("POST /v1/abis/reload", s.handleReload)

	// No auth required
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())

	s.handler = s.metrics.instrument(s.authMiddleware(corsMiddleware(mux, opts.CORSOrigin)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func publicPath(p string) bool {
	return p == "/health" || p == "/metrics"
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || publicPath(r.URL.Path) || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
