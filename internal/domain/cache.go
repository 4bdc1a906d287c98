package domain

import (
	"context"
	"time"
)

// SnapshotCache caches read-model snapshots so repeated display reads do not
// hammer the RPC endpoint. Misses return ErrNotFound.
type SnapshotCache interface {
	SetMarketStats(ctx context.Context, stats MarketStats, ttl time.Duration) error
	GetMarketStats(ctx context.Context) (MarketStats, error)
	SetPortfolio(ctx context.Context, p Portfolio, ttl time.Duration) error
	GetPortfolio(ctx context.Context, wallet string) (Portfolio, error)
	SetBondInfo(ctx context.Context, index uint64, info BondInfo, ttl time.Duration) error
	GetBondInfo(ctx context.Context, index uint64) (BondInfo, error)
}

// SignalBus is the persistent outcome channel. Trade outcomes are published
// here so they reach the user even when the originating session is gone.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// RateLimiter bounds the request rate per caller key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
