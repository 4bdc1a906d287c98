package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vaultbond/vaultbond/internal/notify"
	"github.com/vaultbond/vaultbond/internal/server"
	"github.com/vaultbond/vaultbond/internal/server/handler"
	"github.com/vaultbond/vaultbond/internal/server/ws"
)

// ServerMode runs the HTTP/WebSocket API until the context is cancelled.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the API plus the outcome watcher and the periodic trade
// archiver.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)

	if deps.SignalBus != nil {
		watcher := notify.NewOutcomeWatcher(deps.SignalBus, deps.Notifier, a.logger)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	if deps.Archiver != nil {
		g.Go(func() error {
			return a.runArchiveLoop(ctx, deps)
		})
	}

	return g.Wait()
}

// startHTTPServer assembles handlers and runs the server inside the group,
// shutting it down gracefully when the context ends.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	handlers := server.Handlers{
		Health:    handler.NewHealthHandler(a.logger),
		Trades:    handler.NewTradeHandler(deps.Sessions, deps.Chain, deps.TradeStore, a.logger),
		Market:    handler.NewMarketHandler(deps.Market, a.logger),
		Portfolio: handler.NewPortfolioHandler(deps.Portfolio, a.logger),
		Bonds:     handler.NewBondHandler(deps.Bonds, a.logger),
	}
	if deps.Chain.SignerAddress() != "" {
		handlers.Issuer = handler.NewIssuerHandler(deps.Chain, deps.Backend, a.logger)
	}

	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, a.logger)
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
		RateLimit:   a.cfg.Server.RateLimit,
		RateWindow:  a.cfg.Server.RateWindow.Duration,
	}, handlers, hub, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}
		return ctx.Err()
	})
}

// runArchiveLoop exports the current month's trade history at the configured
// interval.
func (a *App) runArchiveLoop(ctx context.Context, deps *Dependencies) error {
	interval := a.cfg.S3.ArchiveInterval.Duration
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.InfoContext(ctx, "archive loop started",
		slog.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			since := startOfMonth(time.Now().UTC())
			count, err := deps.Archiver.ArchiveTrades(ctx, since)
			if err != nil {
				a.logger.ErrorContext(ctx, "trade archive failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			a.logger.InfoContext(ctx, "trade archive written",
				slog.Int64("count", count),
				slog.Time("since", since),
			)
		}
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
