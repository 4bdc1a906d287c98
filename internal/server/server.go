// Package server exposes the trade coordinator over HTTP and WebSocket.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/server/handler"
	"github.com/vaultbond/vaultbond/internal/server/middleware"
	"github.com/vaultbond/vaultbond/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// RateLimit caps requests per client IP per RateWindow; zero disables
	// rate limiting.
	RateLimit  int
	RateWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Trades    *handler.TradeHandler
	Market    *handler.MarketHandler
	Portfolio *handler.PortfolioHandler
	Bonds     *handler.BondHandler
	Issuer    *handler.IssuerHandler
}

// Server is the HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered. Middleware order is
// CORS, then request logging, then rate limiting, then auth. The issuer
// handler and the WebSocket hub are optional.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Trade submission and history.
	mux.HandleFunc("POST /api/trades", handlers.Trades.SubmitTrade)
	mux.HandleFunc("GET /api/trades", handlers.Trades.ListHistory)
	mux.HandleFunc("GET /api/trades/{id}", handlers.Trades.GetTradeInfo)
	mux.HandleFunc("DELETE /api/sessions/{id}", handlers.Trades.CloseSession)

	// Read models.
	mux.HandleFunc("GET /api/market/stats", handlers.Market.GetStats)
	mux.HandleFunc("GET /api/portfolio", handlers.Portfolio.GetPortfolio)
	mux.HandleFunc("GET /api/bonds/{id}", handlers.Bonds.GetBond)

	// Issuer-side bond management.
	if handlers.Issuer != nil {
		mux.HandleFunc("POST /api/bonds", handlers.Issuer.CreateBond)
		mux.HandleFunc("POST /api/bonds/{id}/price", handlers.Issuer.UpdatePrice)
		mux.HandleFunc("POST /api/bonds/{id}/verify", handlers.Issuer.VerifyBond)
		mux.HandleFunc("DELETE /api/bonds/{id}", handlers.Issuer.DeactivateBond)
		mux.HandleFunc("POST /api/reputation", handlers.Issuer.UpdateReputation)
	}

	// WebSocket outcome stream.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	if limiter != nil && cfg.RateLimit > 0 {
		window := cfg.RateWindow
		if window <= 0 {
			window = time.Second
		}
		h = middleware.RateLimit(limiter, cfg.RateLimit, window)(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
