package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
}

// TradeStore persists one row per submission attempt, updated in place when
// the attempt resolves.
type TradeStore interface {
	Create(ctx context.Context, rec TradeRecord) error
	Resolve(ctx context.Context, id string, outcome TradeOutcome, resolvedAt time.Time) error
	GetByID(ctx context.Context, id string) (TradeRecord, error)
	ListByWallet(ctx context.Context, wallet string, opts ListOpts) ([]TradeRecord, error)
	ListSince(ctx context.Context, since time.Time) ([]TradeRecord, error)
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        int64
	Event     string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}
