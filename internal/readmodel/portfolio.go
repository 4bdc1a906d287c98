package readmodel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/pricing"
)

// portfolioValueScale expands the contract's compressed holdings value into
// dollars, matching the dApp convention.
const portfolioValueScale = 1000

// PortfolioView is the display-ready per-wallet snapshot.
type PortfolioView struct {
	Wallet        string
	TotalValueUSD float64
	TotalYield    string
	BondCount     uint32
}

// PortfolioSnapshot is what the adapter hands to consumers.
type PortfolioSnapshot struct {
	Data   PortfolioView
	Status Status
	Err    error
}

// portfolioFallback is the static default shown when the read fails for a
// connected wallet.
var portfolioFallback = PortfolioView{
	TotalValueUSD: 74_125,
	TotalYield:    pricing.FormatYield(4.05),
	BondCount:     2,
}

// PortfolioAdapter wraps the getPortfolioInfo read. It depends on wallet
// state: with no connected address it issues no read at all.
type PortfolioAdapter struct {
	reader ContractReader
	cache  domain.SnapshotCache // optional
	ttl    time.Duration
	logger *slog.Logger
}

// NewPortfolioAdapter creates the adapter. cache may be nil.
func NewPortfolioAdapter(reader ContractReader, cache domain.SnapshotCache, ttl time.Duration, logger *slog.Logger) *PortfolioAdapter {
	return &PortfolioAdapter{
		reader: reader,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "readmodel_portfolio")),
	}
}

// Placeholder is the deterministic loading snapshot.
func (a *PortfolioAdapter) Placeholder() PortfolioSnapshot {
	return PortfolioSnapshot{Status: StatusLoading}
}

// Load resolves the portfolio snapshot for the given wallet state.
func (a *PortfolioAdapter) Load(ctx context.Context, wallet domain.WalletState) PortfolioSnapshot {
	if !wallet.Connected() {
		return PortfolioSnapshot{Status: StatusDisconnected}
	}

	if a.cache != nil {
		if raw, err := a.cache.GetPortfolio(ctx, wallet.Address); err == nil {
			return PortfolioSnapshot{Data: portfolioViewFrom(raw), Status: StatusReady}
		} else if !errors.Is(err, domain.ErrNotFound) {
			a.logger.WarnContext(ctx, "portfolio cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	raw, err := a.reader.GetPortfolioInfo(ctx, wallet.Address)
	if err != nil {
		a.logger.WarnContext(ctx, "portfolio read failed, serving fallback",
			slog.String("wallet", wallet.Address),
			slog.String("error", err.Error()),
		)
		fb := portfolioFallback
		fb.Wallet = wallet.Address
		return PortfolioSnapshot{Data: fb, Status: StatusFallback, Err: err}
	}

	if a.cache != nil {
		if err := a.cache.SetPortfolio(ctx, raw, a.ttl); err != nil {
			a.logger.WarnContext(ctx, "portfolio cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return PortfolioSnapshot{Data: portfolioViewFrom(raw), Status: StatusReady}
}

func portfolioViewFrom(raw domain.Portfolio) PortfolioView {
	return PortfolioView{
		Wallet:        raw.Wallet,
		TotalValueUSD: float64(raw.TotalValue) * portfolioValueScale,
		TotalYield:    pricing.FormatYield(float64(raw.TotalYield)),
		BondCount:     raw.BondCount,
	}
}
