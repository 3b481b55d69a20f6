package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Server serves a Provider to Clients over websocket.
type Server struct {
	provider Provider
	log      *zap.Logger
	upgrader websocket.Upgrader
	router   *mux.Router
}

// NewServer creates a server for p. A nil logger disables logging.
func NewServer(p Provider, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		provider: p,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		router: mux.NewRouter(),
	}
	s.router.HandleFunc("/ws", s.handleWS)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

// Handler returns the routes wrapped with access logging and panic
// recovery.
func (s *Server) Handler() http.Handler {
	std, _ := zap.NewStdLogAt(s.log, zap.InfoLevel)
	var h http.Handler = handlers.RecoveryHandler(handlers.RecoveryLogger(std))(s.router)
	return handlers.LoggingHandler(std.Writer(), h)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("geometry server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.log.With(zap.String("remote", r.RemoteAddr))
	log.Debug("client connected")

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("reading request", zap.Error(err))
			}
			return
		}
		resp := s.dispatch(r.Context(), &req)
		if resp.Error != "" {
			log.Info("request failed", zap.String("op", req.Op), zap.String("error", resp.Error))
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Warn("writing response", zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req *request) *response {
	resp := &response{ID: req.ID}
	switch {
	case req.Op == opGeometry && req.Geometry != nil:
		g, err := s.provider.Geometry(ctx, *req.Geometry)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Geometry = toPayload(g)
	case req.Op == opMaterial && req.Material != nil:
		m, err := s.provider.Material(ctx, *req.Material)
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Material = m
	default:
		resp.Error = "bad request: op " + req.Op
	}
	return resp
}
