package readmodel

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// BondInfoSnapshot is what the adapter hands to consumers.
type BondInfoSnapshot struct {
	Data   domain.BondInfo
	Status Status
	Err    error
}

// BondInfoAdapter wraps the getBondInfo read for a single bond index.
type BondInfoAdapter struct {
	reader ContractReader
	cache  domain.SnapshotCache // optional
	ttl    time.Duration
	logger *slog.Logger
}

// NewBondInfoAdapter creates the adapter. cache may be nil.
func NewBondInfoAdapter(reader ContractReader, cache domain.SnapshotCache, ttl time.Duration, logger *slog.Logger) *BondInfoAdapter {
	return &BondInfoAdapter{
		reader: reader,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "readmodel_bond")),
	}
}

// Placeholder is the deterministic loading snapshot.
func (a *BondInfoAdapter) Placeholder() BondInfoSnapshot {
	return BondInfoSnapshot{Status: StatusLoading}
}

// Load resolves bond metadata for one on-chain index. On error it degrades
// to an empty, clearly-labeled fallback record.
func (a *BondInfoAdapter) Load(ctx context.Context, index uint64) BondInfoSnapshot {
	if a.cache != nil {
		if info, err := a.cache.GetBondInfo(ctx, index); err == nil {
			return BondInfoSnapshot{Data: info, Status: StatusReady}
		} else if !errors.Is(err, domain.ErrNotFound) {
			a.logger.WarnContext(ctx, "bond info cache read failed",
				slog.Uint64("bond_index", index),
				slog.String("error", err.Error()),
			)
		}
	}

	info, err := a.reader.GetBondInfo(ctx, index)
	if err != nil {
		a.logger.WarnContext(ctx, "bond info read failed, serving fallback",
			slog.Uint64("bond_index", index),
			slog.String("error", err.Error()),
		)
		return BondInfoSnapshot{Status: StatusFallback, Err: err}
	}

	if a.cache != nil {
		if err := a.cache.SetBondInfo(ctx, index, info, a.ttl); err != nil {
			a.logger.WarnContext(ctx, "bond info cache write failed",
				slog.Uint64("bond_index", index),
				slog.String("error", err.Error()),
			)
		}
	}
	return BondInfoSnapshot{Data: info, Status: StatusReady}
}
