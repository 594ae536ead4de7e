package agentsim

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/cgast/droidsh/pkg/geo"
	"github.com/cgast/droidsh/pkg/protocol"
)

// Routes served by the simulator.
const (
	RPCPath       = "/rpc"
	GeolocatePath = "/geolocation/v1/geolocate"
)

const maxRequestSize = 1024 * 1024

// ServerConfig configures the simulator's HTTP front end.
type ServerConfig struct {
	// Secret enables request signature checks when non-empty.
	Secret string
	Logger *slog.Logger
}

// Server exposes an Agent over HTTP.
type Server struct {
	agent     *Agent
	key       []byte
	router    *mux.Router
	logger    *slog.Logger
	startTime time.Time

	requests atomic.Int64
	failures atomic.Int64
	rejected atomic.Int64
}

// NewServer creates the HTTP server for agent.
func NewServer(agent *Agent, cfg ServerConfig) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		agent:     agent,
		router:    mux.NewRouter(),
		logger:    logger,
		startTime: time.Now(),
	}
	if cfg.Secret != "" {
		key, err := protocol.DeriveKey(cfg.Secret)
		if err != nil {
			return nil, err
		}
		s.key = key
	}

	s.router.HandleFunc(RPCPath, s.handleRPC).Methods(http.MethodPost)
	s.router.HandleFunc(GeolocatePath, s.handleGeolocate).Methods(http.MethodPost)
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK\n")
	}).Methods(http.MethodGet)
	s.router.Use(s.logRequests)
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if s.key != nil && !protocol.Verify(s.key, body, r.Header.Get(protocol.SignatureHeader)) {
		s.rejected.Add(1)
		s.logger.Warn("rejected unsigned request", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, protocol.NewErrorResponse(nil, protocol.CodeUnauthorized, "invalid request signature", nil))
		return
	}

	resp := s.agent.Handler().HandleRaw(r.Context(), body)
	if resp.Error != nil {
		s.failures.Add(1)
		s.logger.Info("call failed", "code", resp.Error.Code, "message", resp.Error.Message)
	}
	writeJSON(w, http.StatusOK, resp)
}

type wifiScan struct {
	WifiAccessPoints []struct {
		MACAddress string `json:"macAddress"`
	} `json:"wifiAccessPoints"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// handleGeolocate answers in the Google geolocation API format with the
// device's configured position.
func (s *Server) handleGeolocate(w http.ResponseWriter, r *http.Request) {
	var scan wifiScan
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSize)).Decode(&scan); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]apiError{"error": {Code: 400, Message: "Parse Error", Status: "INVALID_ARGUMENT"}})
		return
	}
	if len(scan.WifiAccessPoints) < geo.MinAccessPoints {
		writeJSON(w, http.StatusNotFound, map[string]apiError{"error": {Code: 404, Message: "Not Found", Status: "NOT_FOUND"}})
		return
	}

	loc := s.agent.Device().Resolved
	writeJSON(w, http.StatusOK, map[string]any{
		"location": map[string]float64{"lat": loc.Lat, "lng": loc.Lng},
		"accuracy": loc.Accuracy,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"uptime":       time.Since(s.startTime).Round(time.Second).String(),
		"requests":     s.requests.Load(),
		"failures":     s.failures.Load(),
		"rejected":     s.rejected.Load(),
		"capabilities": s.agent.Capabilities(),
		"activity":     s.agent.Activity(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
