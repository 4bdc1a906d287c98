package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// SnapshotCache implements domain.SnapshotCache using JSON-encoded string
// values with a per-entry TTL. Keys: "stats:market", "portfolio:{wallet}",
// "bond:{index}".
type SnapshotCache struct {
	rdb *redis.Client
}

// NewSnapshotCache creates a SnapshotCache backed by the given Client.
func NewSnapshotCache(c *Client) *SnapshotCache {
	return &SnapshotCache{rdb: c.Underlying()}
}

const marketStatsKey = "stats:market"

func portfolioKey(wallet string) string {
	return "portfolio:" + wallet
}

func bondKey(index uint64) string {
	return "bond:" + strconv.FormatUint(index, 10)
}

// SetMarketStats stores the aggregate market snapshot.
func (sc *SnapshotCache) SetMarketStats(ctx context.Context, stats domain.MarketStats, ttl time.Duration) error {
	return sc.set(ctx, marketStatsKey, stats, ttl)
}

// GetMarketStats retrieves the aggregate market snapshot. It returns
// domain.ErrNotFound when the key does not exist.
func (sc *SnapshotCache) GetMarketStats(ctx context.Context) (domain.MarketStats, error) {
	var stats domain.MarketStats
	if err := sc.get(ctx, marketStatsKey, &stats); err != nil {
		return domain.MarketStats{}, err
	}
	return stats, nil
}

// SetPortfolio stores the per-wallet portfolio snapshot.
func (sc *SnapshotCache) SetPortfolio(ctx context.Context, p domain.Portfolio, ttl time.Duration) error {
	return sc.set(ctx, portfolioKey(p.Wallet), p, ttl)
}

// GetPortfolio retrieves the portfolio snapshot for a wallet. It returns
// domain.ErrNotFound when the key does not exist.
func (sc *SnapshotCache) GetPortfolio(ctx context.Context, wallet string) (domain.Portfolio, error) {
	var p domain.Portfolio
	if err := sc.get(ctx, portfolioKey(wallet), &p); err != nil {
		return domain.Portfolio{}, err
	}
	return p, nil
}

// SetBondInfo stores bond metadata for one on-chain index.
func (sc *SnapshotCache) SetBondInfo(ctx context.Context, index uint64, info domain.BondInfo, ttl time.Duration) error {
	return sc.set(ctx, bondKey(index), info, ttl)
}

// GetBondInfo retrieves bond metadata for one on-chain index. It returns
// domain.ErrNotFound when the key does not exist.
func (sc *SnapshotCache) GetBondInfo(ctx context.Context, index uint64) (domain.BondInfo, error) {
	var info domain.BondInfo
	if err := sc.get(ctx, bondKey(index), &info); err != nil {
		return domain.BondInfo{}, err
	}
	return info, nil
}

func (sc *SnapshotCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	if err := sc.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (sc *SnapshotCache) get(ctx context.Context, key string, v any) error {
	data, err := sc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("redis: get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SnapshotCache = (*SnapshotCache)(nil)
