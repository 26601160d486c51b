package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/lubetrack/internal/domain"
	"github.com/vbonduro/lubetrack/internal/metrics"
	"github.com/vbonduro/lubetrack/internal/service"
)

type Server struct {
	services *service.Services
	metrics  *metrics.Metrics
	now      func() time.Time
	mux      *http.ServeMux
	logger   *slog.Logger
}

// NewServer builds the JSON API. m may be nil, in which case /metrics is not
// served. now supplies "today" for due lists and export file names.
func NewServer(svc *service.Services, m *metrics.Metrics, now func() time.Time, logger *slog.Logger) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		services: svc,
		metrics:  m,
		now:      now,
		mux:      http.NewServeMux(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("GET /api/equipment", s.handleListEquipment)
	s.mux.HandleFunc("POST /api/equipment", s.handleCreateEquipment)
	s.mux.HandleFunc("GET /api/equipment/{id}", s.handleGetEquipment)
	s.mux.HandleFunc("PUT /api/equipment/{id}", s.handleUpdateEquipment)
	s.mux.HandleFunc("DELETE /api/equipment/{id}", s.handleDeleteEquipment)
	s.mux.HandleFunc("POST /api/equipment/{id}/complete", s.handleCompleteTask)

	s.mux.HandleFunc("GET /api/schedule/due", s.handleDueItems)
	s.mux.HandleFunc("GET /api/schedule/due/export", s.handleExportDue)

	s.mux.HandleFunc("GET /api/records", s.handleHistory)
	s.mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	s.mux.HandleFunc("GET /api/records/export", s.handleExportHistory)
	s.mux.HandleFunc("PUT /api/records/{id}", s.handleUpdateRecord)
	s.mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)

	s.mux.HandleFunc("GET /api/inventory", s.handleListItems)
	s.mux.HandleFunc("POST /api/inventory", s.handleCreateItem)
	s.mux.HandleFunc("GET /api/inventory/low", s.handleLowStock)
	s.mux.HandleFunc("PUT /api/inventory/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /api/inventory/{id}", s.handleDeleteItem)
	s.mux.HandleFunc("POST /api/inventory/{id}/transactions", s.handleApplyTransaction)

	s.mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	s.mux.HandleFunc("GET /api/transactions/export", s.handleExportJournal)
	s.mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	s.mux.HandleFunc("GET /api/sop/categories", s.handleListCategories)
	s.mux.HandleFunc("POST /api/sop/categories", s.handleCreateCategory)
	s.mux.HandleFunc("PUT /api/sop/categories/{id}", s.handleUpdateCategory)
	s.mux.HandleFunc("DELETE /api/sop/categories/{id}", s.handleDeleteCategory)
	s.mux.HandleFunc("GET /api/sop/categories/{id}/documents", s.handleListDocuments)
	s.mux.HandleFunc("POST /api/sop/categories/{id}/documents", s.handleCreateDocument)
	s.mux.HandleFunc("GET /api/sop/documents/{id}", s.handleGetDocument)
	s.mux.HandleFunc("PUT /api/sop/documents/{id}", s.handleUpdateDocument)
	s.mux.HandleFunc("DELETE /api/sop/documents/{id}", s.handleDeleteDocument)

	s.mux.HandleFunc("POST /api/assistant/advice", s.handleAdvice)
	s.mux.HandleFunc("POST /api/assistant/risk", s.handleRisk)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) today() domain.Date {
	return domain.DateOf(s.now())
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
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

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
