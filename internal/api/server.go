// ABOUTME: HTTP JSON API over the tracker, routed with chi.
// ABOUTME: Serves calendar, today, stats, schedules, and dose logging for `dose serve`.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/models"
	"github.com/harperreed/dose/internal/tracker"
)

// Default calendar window when the request gives none.
const (
	defaultPastDays   = 7
	defaultFutureDays = 14
)

// Server serves the JSON API.
type Server struct {
	tracker *tracker.Tracker
	logger  *log.Logger
	router  chi.Router
}

// NewServer builds the router. A nil logger discards output.
func NewServer(t *tracker.Tracker, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{tracker: t, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	s.RegisterHTTP(r)
	s.router = r
	return s
}

// RegisterHTTP mounts the API routes on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/calendar", s.handleCalendar)
		r.Get("/today", s.handleToday)
		r.Get("/stats", s.handleStats)
		r.Get("/schedules", s.handleSchedules)
		r.Post("/doses", s.handleLogDose)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
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
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	start, days := engine.WindowAround(s.tracker.Now(), defaultPastDays, defaultFutureDays)

	if v := r.URL.Query().Get("start"); v != "" {
		t, err := engine.ParseDayKey(v, s.tracker.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid start %q: use YYYY-MM-DD", v))
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > engine.MaxWindowDays {
			writeError(w, http.StatusBadRequest, fmt.Errorf("days must be between 1 and %d", engine.MaxWindowDays))
			return
		}
		days = n
	}

	calendar, err := s.tracker.Calendar(r.Context(), start, days)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start": engine.LocalDayKey(start, s.tracker.Location()),
		"days":  calendar,
	})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	today, err := s.tracker.Today(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, today)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.tracker.Stats(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.tracker.Schedules(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules})
}

// LogDoseRequest is the body for POST /api/v1/doses.
type LogDoseRequest struct {
	PeptideName string     `json:"peptideName"`
	Amount      string     `json:"amount"`
	Date        *time.Time `json:"date,omitempty"`
	Category    string     `json:"category,omitempty"`
}

func (s *Server) handleLogDose(w http.ResponseWriter, r *http.Request) {
	var req LogDoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.PeptideName) == "" {
		writeError(w, http.StatusBadRequest, errors.New("peptideName is required"))
		return
	}

	e := models.NewDoseEntry(strings.TrimSpace(req.PeptideName), req.Amount)
	if req.Date != nil {
		e.WithDate(*req.Date)
	}
	if req.Category != "" {
		e.WithCategory(req.Category)
	}
	if err := s.tracker.LogDose(r.Context(), e); err != nil {
		s.internalError(w, err)
		return
	}

	s.logger.Info("dose logged", "name", e.PeptideName, "id", e.ID.String()[:8])
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
