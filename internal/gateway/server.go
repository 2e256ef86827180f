package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"teamchat/internal/config"
	"teamchat/internal/domain"
	"teamchat/internal/logging"
	"teamchat/internal/workspace"
)

// MessageStore is the persistence boundary behind /api/messages.
type MessageStore interface {
	ListChannel(channelID string) ([]domain.Message, error)
	ListAll() (map[string][]domain.Message, error)
	Append(channelID string, msg domain.Message) error
	Clear(channelID string) (int, error)
}

// Server is the teamchat HTTP + WebSocket server: the password gate, the
// chat completion and message persistence boundaries, and the workspace
// API all hang off one mux.
type Server struct {
	cfg       config.Config
	log       *logging.Logger
	sessions  *Sessions
	hub       *Hub
	workspace *workspace.Workspace
	completer workspace.Completer
	msgs      MessageStore

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// New creates a gateway server. The hub must be the same instance wired
// into the workspace as its event sink, so WebSocket clients see the
// appends the responder loop produces.
func New(cfg config.Config, log *logging.Logger, hub *Hub, ws *workspace.Workspace, completer workspace.Completer, msgs MessageStore) *Server {
	allowedOrigins := cfg.Server.AllowedOrigins
	return &Server{
		cfg:       cfg,
		log:       log.Sub("gateway"),
		sessions:  NewSessions(time.Duration(cfg.Auth.SessionTTLHours) * time.Hour),
		hub:       hub,
		workspace: ws,
		completer: completer,
		msgs:      msgs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(allowedOrigins),
		},
	}
}

// checkWebSocketOrigin returns a function that validates WebSocket Origin
// headers. If no origins are configured, only same-origin (no Origin
// header) or non-browser clients are allowed.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return isOriginAllowed(origin, allowed)
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.ServerConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Handler builds the full route tree with middleware. Exposed so tests
// can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(s.passwordGate(mux), s.log, s.cfg.Server.AllowedOrigins)
}

// Start begins listening for HTTP and WebSocket connections.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Server)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Server.Bind != "loopback" && s.cfg.Server.Bind != "" {
		s.log.Warn().Msg("serving beyond loopback without TLS, credentials travel in cleartext")
	}

	s.startedAt = time.Now()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Server.Bind).
		Bool("passwordConfigured", s.cfg.Auth.Password != "").
		Msg("server ready")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.hub.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

// handleWebSocket upgrades to WebSocket and hands the connection to the
// hub. The password gate has already vetted the session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.run(conn)
}
