package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"aquarius/internal/config"
	"aquarius/internal/logging"
	"aquarius/internal/packages"
	"aquarius/internal/pipeline"
	"aquarius/internal/services"
)

// StageRunner is the engine surface the API triggers.
type StageRunner interface {
	RunStage(ctx context.Context, name string) (*pipeline.Report, error)
	RunAll(ctx context.Context) ([]*pipeline.Report, error)
}

// Server exposes the trigger surface: package ingestion and queries, stage
// runs, and a status summary.
type Server struct {
	store  *packages.Store
	runner StageRunner
	logger *slog.Logger
	token  string
	bind   string
}

// NewServer builds the API server from configuration.
func NewServer(cfg *config.Config, store *packages.Store, runner StageRunner, logger *slog.Logger) *Server {
	return &Server{
		store:  store,
		runner: runner,
		logger: logging.NewComponentLogger(logger, "api"),
		token:  cfg.Paths.APIToken,
		bind:   cfg.Paths.APIBind,
	}
}

// Handler returns the routed and authenticated handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/packages", s.handleCreatePackage)
	mux.HandleFunc("GET /api/packages", s.handleListPackages)
	mux.HandleFunc("GET /api/packages/{id}", s.handleGetPackage)
	mux.HandleFunc("POST /api/run/{stage}", s.handleRunStage)
	mux.HandleFunc("POST /api/run", s.handleRunAll)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	return s.authenticate(mux)
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.bind,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("api listening", logging.String("bind", s.bind))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// authenticate enforces bearer-token auth when a token is configured and
// tags every request with a correlation ID.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			header := r.Header.Get("Authorization")
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
				return
			}
		}
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleRunStage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("stage")
	report, err := s.runner.RunStage(r.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRunAll(w http.ResponseWriter, r *http.Request) {
	reports, err := s.runner.RunAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	counts := make(map[string]int, len(summary))
	for status, count := range summary {
		counts[status.String()] = count
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": counts})
}
