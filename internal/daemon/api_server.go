package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"mediamon/internal/config"
	"mediamon/internal/logging"
	"mediamon/internal/settings"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

// statsResponse mirrors the processed-file aggregates the store keeps.
type statsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	WatchDir string         `json:"watch_dir"`
	Workers  int            `json:"workers"`
}

type testResponse struct {
	Sent   bool   `json:"sent"`
	Detail string `json:"detail,omitempty"`
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux.HandleFunc("/api/stats", srv.handleStats)
	mux.HandleFunc("/api/config", srv.handleConfig)
	mux.HandleFunc("/api/test/ntfy", srv.handleTestNtfy)
	mux.HandleFunc("/api/test/discord", srv.handleTestDiscord)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.daemon.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byStatus := stats.ByStatus
	if byStatus == nil {
		byStatus = map[string]int{}
	}
	s.writeJSON(w, http.StatusOK, statsResponse{
		Total:    stats.Total,
		ByStatus: byStatus,
		WatchDir: s.daemon.cfg.Paths.WatchDir,
		Workers:  s.daemon.cfg.Monitor.Workers,
	})
}

// handleConfig serves the runtime settings snapshot and accepts updates.
// Updates replace the whole snapshot; clients should GET, modify, and POST.
func (s *apiServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.daemon.Settings())
	case http.MethodPost:
		var next settings.Snapshot
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&next); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid settings payload: %v", err))
			return
		}
		if err := s.daemon.UpdateSettings(next); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, s.daemon.Settings())
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleTestNtfy(w http.ResponseWriter, r *http.Request) {
	s.handleTest(w, r, "ntfy", s.daemon.TestNtfy)
}

func (s *apiServer) handleTestDiscord(w http.ResponseWriter, r *http.Request) {
	s.handleTest(w, r, "discord", s.daemon.TestDiscord)
}

func (s *apiServer) handleTest(w http.ResponseWriter, r *http.Request, channel string, send func(context.Context) error) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := send(r.Context()); err != nil {
		s.log().Warn("test notification failed",
			logging.String(logging.FieldChannel, channel), logging.Error(err))
		s.writeJSON(w, http.StatusBadGateway, testResponse{Sent: false, Detail: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, testResponse{Sent: true})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
