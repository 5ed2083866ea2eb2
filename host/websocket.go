package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/linanwx/uibridge/logger"
)

const (
	// DefaultPath is where the server accepts host connections.
	DefaultPath = "/bridge"

	wsReadLimit       = 1 << 20
	wsShutdownTimeout = 3 * time.Second
)

// WSConfig configures the WebSocket server.
type WSConfig struct {
	Addr           string
	Path           string
	OriginPatterns []string
}

// WSServer accepts a single host connection at a time. A new connection
// replaces the previous one.
type WSServer struct {
	cfg      WSConfig
	dispatch Dispatch

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSServer creates a server delivering inbound frames to dispatch.
func NewWSServer(cfg WSConfig, dispatch Dispatch) *WSServer {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	return &WSServer{cfg: cfg, dispatch: dispatch}
}

// Handler returns the HTTP handler serving the bridge endpoint.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.handleConn)
	return mux
}

// Run listens on cfg.Addr until ctx is cancelled.
func (s *WSServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("host: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *WSServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("host websocket listening", "addr", ln.Addr().String(), "path", s.cfg.Path)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), wsShutdownTimeout)
		defer cancel()
		s.closeConn(websocket.StatusGoingAway, "shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("host: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("host: serve: %w", err)
	}
}

func (s *WSServer) handleConn(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.OriginPatterns,
	})
	if err != nil {
		logger.Warn("host websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c.SetReadLimit(wsReadLimit)

	s.mu.Lock()
	prev := s.conn
	s.conn = c
	s.mu.Unlock()
	if prev != nil {
		_ = prev.Close(websocket.StatusPolicyViolation, "replaced by newer host connection")
	}
	logger.Info("host connected", "remote", r.RemoteAddr)

	err = readLoop(r.Context(), c, s.dispatch)

	s.mu.Lock()
	if s.conn == c {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = c.CloseNow()
	logger.Info("host disconnected", "remote", r.RemoteAddr, "reason", err)
}

// Connected reports whether a host is attached.
func (s *WSServer) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// SendMessage writes payload to the attached host.
func (s *WSServer) SendMessage(ctx context.Context, payload string) error {
	s.mu.Lock()
	c := s.conn
	s.mu.Unlock()
	if c == nil {
		return ErrNotConnected
	}
	return c.Write(ctx, websocket.MessageText, []byte(payload))
}

func (s *WSServer) closeConn(code websocket.StatusCode, reason string) {
	s.mu.Lock()
	c := s.conn
	s.conn = nil
	s.mu.Unlock()
	if c != nil {
		_ = c.Close(code, reason)
	}
}

// WSClient is a host link dialled from this side, for hosts that run the
// WebSocket server themselves.
type WSClient struct {
	conn     *websocket.Conn
	dispatch Dispatch
}

// Dial connects to a host endpoint. Call Run to start receiving.
func Dial(ctx context.Context, url string, dispatch Dispatch) (*WSClient, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("host: dial %s: %w", url, err)
	}
	c.SetReadLimit(wsReadLimit)
	return &WSClient{conn: c, dispatch: dispatch}, nil
}

// Run reads inbound frames until the connection or ctx closes.
func (c *WSClient) Run(ctx context.Context) error {
	err := readLoop(ctx, c.conn, c.dispatch)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// SendMessage writes payload to the host.
func (c *WSClient) SendMessage(ctx context.Context, payload string) error {
	return c.conn.Write(ctx, websocket.MessageText, []byte(payload))
}

// Close closes the connection normally.
func (c *WSClient) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

func readLoop(ctx context.Context, c *websocket.Conn, dispatch Dispatch) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			logger.Debug("ignoring binary frame from host", "len", len(data))
			continue
		}
		if dispatch != nil {
			dispatch(string(data))
		}
	}
}
