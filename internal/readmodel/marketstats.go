package readmodel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vaultbond/vaultbond/internal/domain"
	"github.com/vaultbond/vaultbond/internal/pricing"
)

// Contract-to-display scale factors for the aggregate stats. The contract
// reports volume in compressed units; the dApp convention expands them.
const (
	marketValueScale = 1_000_000
	dayVolumeScale   = 100_000
)

// MarketView is the display-ready market snapshot.
type MarketView struct {
	TotalMarketValueUSD float64
	ActiveBonds         uint32
	DayVolumeUSD        float64
	EncryptedTrades     uint32
	AverageYield        string
}

// MarketSnapshot is what the adapter hands to consumers.
type MarketSnapshot struct {
	Data   MarketView
	Status Status
	Err    error
}

// marketFallback is the static default shown when the contract read fails.
var marketFallback = MarketView{
	TotalMarketValueUSD: 2_400_000_000,
	ActiveBonds:         847,
	DayVolumeUSD:        156_000_000,
	EncryptedTrades:     1204,
	AverageYield:        pricing.FormatYield(4.05),
}

// MarketStatsAdapter wraps the getMarketStats read.
type MarketStatsAdapter struct {
	reader ContractReader
	cache  domain.SnapshotCache // optional
	ttl    time.Duration
	logger *slog.Logger
}

// NewMarketStatsAdapter creates the adapter. cache may be nil.
func NewMarketStatsAdapter(reader ContractReader, cache domain.SnapshotCache, ttl time.Duration, logger *slog.Logger) *MarketStatsAdapter {
	return &MarketStatsAdapter{
		reader: reader,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "readmodel_market")),
	}
}

// Placeholder is the deterministic snapshot consumers render while the read
// is outstanding.
func (a *MarketStatsAdapter) Placeholder() MarketSnapshot {
	return MarketSnapshot{Status: StatusLoading}
}

// Load resolves the market snapshot, consulting the cache first.
func (a *MarketStatsAdapter) Load(ctx context.Context) MarketSnapshot {
	if a.cache != nil {
		if raw, err := a.cache.GetMarketStats(ctx); err == nil {
			return MarketSnapshot{Data: marketViewFrom(raw), Status: StatusReady}
		} else if !errors.Is(err, domain.ErrNotFound) {
			a.logger.WarnContext(ctx, "market stats cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	raw, err := a.reader.GetMarketStats(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "market stats read failed, serving fallback",
			slog.String("error", err.Error()),
		)
		return MarketSnapshot{Data: marketFallback, Status: StatusFallback, Err: err}
	}

	if a.cache != nil {
		if err := a.cache.SetMarketStats(ctx, raw, a.ttl); err != nil {
			a.logger.WarnContext(ctx, "market stats cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return MarketSnapshot{Data: marketViewFrom(raw), Status: StatusReady}
}

// marketViewFrom expands contract-scale stats into display units.
func marketViewFrom(raw domain.MarketStats) MarketView {
	return MarketView{
		TotalMarketValueUSD: float64(raw.TotalVolume) * marketValueScale,
		ActiveBonds:         raw.ActiveBonds,
		DayVolumeUSD:        float64(raw.TotalVolume) * dayVolumeScale,
		EncryptedTrades:     raw.TotalTrades,
		AverageYield:        pricing.FormatYield(float64(raw.AverageYield)),
	}
}
