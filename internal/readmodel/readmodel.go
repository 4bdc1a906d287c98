// Package readmodel maps contract read tuples into display-ready records.
// The read side is best-effort: every adapter degrades to a labeled static
// fallback on error and never blocks the trade write path.
package readmodel

import (
	"context"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// Status labels a snapshot so consumers can render it honestly.
type Status string

const (
	// StatusLoading means the read has not resolved; render the
	// deterministic placeholder, never stale data.
	StatusLoading Status = "loading"
	// StatusReady means Data came from the contract.
	StatusReady Status = "ready"
	// StatusFallback means the read failed and Data is the static default.
	StatusFallback Status = "fallback"
	// StatusDisconnected means no wallet is connected and no read was
	// issued. Distinct from loading and from error.
	StatusDisconnected Status = "disconnected"
)

// ContractReader is the read-only contract surface the adapters consume.
type ContractReader interface {
	GetMarketStats(ctx context.Context) (domain.MarketStats, error)
	GetPortfolioInfo(ctx context.Context, wallet string) (domain.Portfolio, error)
	GetBondInfo(ctx context.Context, index uint64) (domain.BondInfo, error)
}
