package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hybrids/pkg/hybrid"
)

// Frame is one notification sent to /events clients.
type Frame struct {
	Runtime string `json:"runtime"`
	Tag     string `json:"tag"`
	ID      uint64 `json:"id"`
	Type    string `json:"type"`
	Label   string `json:"label,omitempty"`
}

// Server streams notifications of one runtime to websocket clients and
// exposes its metrics.
type Server struct {
	runtimeID string
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	router    chi.Router

	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	tree     string
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer sets where /metrics reads from. The default is the
// Prometheus default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates an inspector for the runtime with the given id.
func New(runtimeID string, opts ...Option) *Server {
	s := &Server{
		runtimeID: runtimeID,
		gatherer:  prometheus.DefaultGatherer,
		clients:   make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local developer tool
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "inspect", "runtime", runtimeID)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/tree", s.handleTree)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/events", s.handleEvents)
	s.router = r
	return s
}

// Handler returns the inspector routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Watch publishes every "@invalidate" event of h. label names the element
// in frames and may be empty.
func (s *Server) Watch(h *hybrid.Host, label string) (remove func()) {
	return h.OnInvalidate(func(h *hybrid.Host) {
		s.Publish(Frame{Tag: h.Tag(), ID: h.ID(), Type: hybrid.EventInvalidate, Label: label})
	})
}

// SetTree replaces the snapshot served at /tree.
func (s *Server) SetTree(tree string) {
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
}

// Publish sends f to every connected client. The runtime id is filled in.
func (s *Server) Publish(f Frame) {
	f.Runtime = s.runtimeID
	data, err := json.Marshal(f)
	if err != nil {
		return
	}

	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug("dropping client", "remote", client.RemoteAddr().String(), "error", err)
			s.mu.Lock()
			delete(s.clients, client)
			s.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected /events clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes all client connections.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}

// ListenAndServe serves the inspector on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the inspector on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("inspector shutdown", "error", err)
		}
	}()

	s.logger.Info("inspector listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"runtime": s.runtimeID,
		"clients": s.ClientCount(),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	tree := s.tree
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, tree)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.logger.Debug("client connected", "remote", conn.RemoteAddr().String())

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}
