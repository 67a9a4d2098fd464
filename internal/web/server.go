package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/retrocam/internal/service"
	"github.com/vbonduro/retrocam/internal/store"
)

// Server is the JSON surface the rendering/drag collaborator talks to. It
// exposes photo records and settings; all lifecycle decisions live in the
// booth service.
type Server struct {
	service  *service.BoothService
	settings *store.SettingsStore
	mux      *http.ServeMux
	logger   *slog.Logger
}

func NewServer(svc *service.BoothService, settings *store.SettingsStore, logger *slog.Logger) *Server {
	s := &Server{
		service:  svc,
		settings: settings,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /photos", s.handleListPhotos)
	s.mux.HandleFunc("POST /photos", s.handleCapture)
	s.mux.HandleFunc("GET /photos/{id}/image", s.handleGetFrame)
	s.mux.HandleFunc("PUT /photos/{id}/caption", s.handleEditCaption)
	s.mux.HandleFunc("POST /photos/{id}/regenerate", s.handleRegenerate)
	s.mux.HandleFunc("POST /photos/{id}/position", s.handleMove)
	s.mux.HandleFunc("POST /photos/{id}/front", s.handleBringToFront)
	s.mux.HandleFunc("DELETE /photos/{id}", s.handleDeletePhoto)
	s.mux.HandleFunc("GET /settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /settings", s.handleSaveSettings)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
