// Package gateway serves the tool catalog as JSON-RPC 2.0 over HTTP and
// WebSocket, next to health and metrics endpoints.
package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/harun/buffettcode-mcp/internal/tracing"
	"github.com/harun/buffettcode-mcp/pkg/dispatcher"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Headers understood by the gateway.
const (
	SecretHeader  = "X-Gateway-Secret"
	TraceIDHeader = "X-Trace-Id"
)

// Transport tags for trace contexts.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

const maxRequestBytes = 1 << 20

// Server is the HTTP/WebSocket JSON-RPC gateway
type Server struct {
	addr           string
	sharedSecret   string
	requestTimeout time.Duration
	rateLimit      int
	maxConcurrent  int
	dispatcher     *dispatcher.Dispatcher
	metrics        http.Handler
	router         *RPCRouter
	clients        *ClientRegistry
	upgrader       websocket.Upgrader
	handler        http.Handler
	server         *http.Server
	listener       net.Listener
	logger         zerolog.Logger

	baseCtx        context.Context
	cancelBase     context.CancelFunc
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	SharedSecret   string
	RequestTimeout time.Duration
	// Optional per websocket connection limits; zero means unlimited.
	RequestsPerMinute int
	MaxConcurrent     int
	Dispatcher        *dispatcher.Dispatcher
	MetricsHandler    http.Handler
	Logger            zerolog.Logger
}

// NewServer creates a new gateway server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:           net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		sharedSecret:   cfg.SharedSecret,
		requestTimeout: cfg.RequestTimeout,
		rateLimit:      cfg.RequestsPerMinute,
		maxConcurrent:  cfg.MaxConcurrent,
		dispatcher:     cfg.Dispatcher,
		metrics:        cfg.MetricsHandler,
		router:         NewRPCRouter(),
		clients:        NewClientRegistry(),
		logger:         cfg.Logger.With().Str("component", "gateway").Logger(),
		baseCtx:        baseCtx,
		cancelBase:     cancel,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // callers are authenticated by shared secret, not origin
			},
		},
	}

	s.registerToolMethods()
	s.handler = s.routes()

	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.With(middleware.Timeout(s.requestTimeout)).Post("/rpc", s.handleRPC)
		r.Get("/ws", s.handleWebSocket)
		r.Get("/clients", s.handleClients)
	})

	return r
}

// Handler exposes the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Starting gateway server")

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Addr returns the bound listener address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully stops the gateway. In-flight websocket calls get until
// ctx is done to finish.
func (s *Server) Stop(ctx context.Context) error {
	s.markShuttingDown()

	s.logger.Info().Msg("Shutting down gateway server")

	done := make(chan struct{})
	go func() {
		s.inFlightReqs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("All in-flight requests completed")
	case <-ctx.Done():
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}
	s.cancelBase()

	for _, client := range s.clients.GetAll() {
		_ = client.Conn.Close()
	}

	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

func (s *Server) markShuttingDown() {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()
}

func (s *Server) shuttingDown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.isShuttingDown
}

// beginRequest registers an in-flight call unless shutdown has started.
// The check and the Add happen under one lock so Stop never waits on a
// counter that is still growing. Callers must call inFlightReqs.Done.
func (s *Server) beginRequest() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	if s.isShuttingDown {
		return false
	}
	s.inFlightReqs.Add(1)
	return true
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sharedSecret == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.sharedSecret)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"tools":   s.dispatcher.Catalog().Len(),
		"clients": s.clients.Count(),
	})
}

// handleClients lists connected websocket clients with their call counters.
func (s *Server) handleClients(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"clients": s.GetConnectedClients(),
	})
}

// handleRPC handles single-shot HTTP JSON-RPC requests.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if !s.beginRequest() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.inFlightReqs.Done()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	req, err := s.router.ParseRequest(body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(parseFailure(err))
		return
	}

	ctx := s.requestContext(r.Context(), r.Header.Get(TraceIDHeader), TransportHTTP)
	ctx = tracing.WithRequestID(ctx, idString(req.ID))
	logger := tracing.LoggerFromContext(ctx, s.logger)
	logger.Info().Str("method", req.Method).Msg("Gateway received HTTP RPC request")

	resp := s.router.RouteRequest(ctx, req)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Msg("Failed to encode RPC response")
	}
}

// handleWebSocket upgrades the connection and serves JSON-RPC frames until
// the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	clientID, err := gonanoid.New()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate client id")
		_ = conn.Close()
		return
	}

	now := time.Now()
	client := &Client{
		ID:           clientID,
		Conn:         conn,
		ConnectedAt:  now,
		LastActivity: now,
		IPAddress:    r.RemoteAddr,
		RateLimiter:  NewClientRateLimiter(s.rateLimit, s.maxConcurrent),
	}
	s.clients.Add(client)

	s.logger.Info().
		Str("clientId", clientID).
		Str("ip", r.RemoteAddr).
		Msg("Client connected")

	go s.handleClient(client, r.Header.Get(TraceIDHeader))
}

func (s *Server) handleClient(client *Client, traceID string) {
	defer func() {
		_ = client.Conn.Close()
		s.clients.Remove(client.ID)
		s.logger.Info().Str("clientId", client.ID).Msg("Client disconnected")
	}()

	ctx := withClientID(s.baseCtx, client.ID)
	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error().Err(err).Str("clientId", client.ID).Msg("WebSocket error")
			}
			return
		}

		s.clients.Touch(client.ID)
		s.handleMessage(ctx, client, traceID, message)
	}
}

// handleMessage answers one websocket frame. Calls run concurrently; replies
// may arrive out of order and are matched by id.
func (s *Server) handleMessage(ctx context.Context, client *Client, traceID string, message []byte) {
	req, err := s.router.ParseRequest(message)
	if err != nil {
		s.send(client, parseFailure(err))
		return
	}

	if !s.beginRequest() {
		s.send(client, errorResponse(req.ID, ServerShutdown, "server is shutting down"))
		return
	}

	if ok, reason := client.RateLimiter.Acquire(); !ok {
		s.inFlightReqs.Done()
		code := RateLimitExceeded
		if reason == ReasonTooConcurrent {
			code = TooManyConcurrent
		}
		s.send(client, errorResponse(req.ID, code, reason))
		return
	}

	go func() {
		defer s.inFlightReqs.Done()
		defer client.RateLimiter.Release()

		callCtx := s.requestContext(ctx, traceID, TransportWebSocket)
		callCtx = tracing.WithRequestID(callCtx, idString(req.ID))
		resp := s.router.RouteRequest(callCtx, req)
		if resp.Error != nil {
			s.logger.Debug().
				Str("clientId", client.ID).
				Str("call", describeCall(req)).
				Int("code", resp.Error.Code).
				Msg("RPC request failed")
		}
		s.send(client, resp)
	}()
}

func (s *Server) send(client *Client, resp *RPCResponse) {
	if err := client.WriteJSON(resp); err != nil {
		s.logger.Error().
			Err(err).
			Str("clientId", client.ID).
			Str("requestId", idString(resp.ID)).
			Msg("Failed to send response")
	}
}

func (s *Server) requestContext(ctx context.Context, traceID, transport string) context.Context {
	if traceID == "" {
		traceID = tracing.NewTraceID()
	}
	ctx = tracing.WithTraceID(ctx, traceID)
	return tracing.WithTransport(ctx, transport)
}

func parseFailure(err error) *RPCResponse {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return &RPCResponse{JSONRPC: JSONRPCVersion, Error: rpcErr}
	}
	return errorResponse(nil, ParseError, err.Error())
}

// RegisterMethod registers an RPC method handler
func (s *Server) RegisterMethod(name string, handler RequestHandler) error {
	return s.router.RegisterMethod(name, handler)
}

// UnregisterMethod unregisters an RPC method handler
func (s *Server) UnregisterMethod(name string) {
	s.router.UnregisterMethod(name)
}

// GetConnectedClients returns information about all connected clients
func (s *Server) GetConnectedClients() []ClientInfo {
	return s.clients.Snapshot()
}
