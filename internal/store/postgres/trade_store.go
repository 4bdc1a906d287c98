package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// TradeStore implements domain.TradeStore using PostgreSQL. One row per
// submission attempt; the row is updated in place when the attempt resolves.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a new TradeStore backed by the given connection pool.
func NewTradeStore(pool *pgxpool.Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

const tradeSelectCols = `id, wallet, bond_id, bond_index, direction, quantity,
	unit_price, total_value, tx_hash, trade_id, state, failure,
	submitted_at, resolved_at`

func scanTradeRow(row pgx.Row) (domain.TradeRecord, error) {
	var rec domain.TradeRecord
	err := row.Scan(
		&rec.ID, &rec.Wallet, &rec.BondID, &rec.BondIndex,
		&rec.Direction, &rec.Quantity, &rec.UnitPrice, &rec.TotalValue,
		&rec.TxHash, &rec.TradeID, &rec.State, &rec.Failure,
		&rec.SubmittedAt, &rec.ResolvedAt,
	)
	return rec, err
}

func scanTradeRows(rows pgx.Rows) ([]domain.TradeRecord, error) {
	var recs []domain.TradeRecord
	for rows.Next() {
		rec, err := scanTradeRow(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Create inserts the pending row for a new submission attempt.
func (s *TradeStore) Create(ctx context.Context, rec domain.TradeRecord) error {
	const query = `
		INSERT INTO trades (
			id, wallet, bond_id, bond_index, direction, quantity,
			unit_price, total_value, tx_hash, trade_id, state, failure,
			submitted_at, resolved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14
		)`
	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.Wallet, rec.BondID, rec.BondIndex,
		rec.Direction, rec.Quantity, rec.UnitPrice, rec.TotalValue,
		rec.TxHash, rec.TradeID, rec.State, rec.Failure,
		rec.SubmittedAt, rec.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create trade %s: %w", rec.ID, err)
	}
	return nil
}

// Resolve records the outcome of a submission attempt.
func (s *TradeStore) Resolve(ctx context.Context, id string, outcome domain.TradeOutcome, resolvedAt time.Time) error {
	state := domain.StateFailed
	var tradeID *uint64
	if outcome.Succeeded {
		state = domain.StateSucceeded
		chainID := outcome.Receipt.TradeID
		tradeID = &chainID
	}

	const query = `
		UPDATE trades
		SET state = $2, failure = $3, tx_hash = $4, trade_id = $5, resolved_at = $6
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query,
		id, state, outcome.Failure, outcome.Receipt.TxHash, tradeID, resolvedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: resolve trade %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: resolve trade %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetByID returns a single trade record, or domain.ErrNotFound.
func (s *TradeStore) GetByID(ctx context.Context, id string) (domain.TradeRecord, error) {
	query := `SELECT ` + tradeSelectCols + ` FROM trades WHERE id = $1`
	rec, err := scanTradeRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TradeRecord{}, domain.ErrNotFound
		}
		return domain.TradeRecord{}, fmt.Errorf("postgres: get trade %s: %w", id, err)
	}
	return rec, nil
}

// ListByWallet returns trade records for a wallet, newest first, with
// pagination and optional time filtering.
func (s *TradeStore) ListByWallet(ctx context.Context, wallet string, opts domain.ListOpts) ([]domain.TradeRecord, error) {
	query := `SELECT ` + tradeSelectCols + ` FROM trades WHERE wallet = $1`
	args := []any{wallet}
	argIdx := 2

	if opts.Since != nil {
		query += fmt.Sprintf(" AND submitted_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}

	query += " ORDER BY submitted_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list trades by wallet: %w", err)
	}
	defer rows.Close()

	recs, err := scanTradeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan trades by wallet: %w", err)
	}
	return recs, nil
}

// ListSince returns all trade records submitted at or after the given time,
// oldest first. Used by the archiver.
func (s *TradeStore) ListSince(ctx context.Context, since time.Time) ([]domain.TradeRecord, error) {
	query := `SELECT ` + tradeSelectCols + ` FROM trades WHERE submitted_at >= $1 ORDER BY submitted_at ASC`
	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: list trades since: %w", err)
	}
	defer rows.Close()

	recs, err := scanTradeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan trades since: %w", err)
	}
	return recs, nil
}

// Compile-time interface check.
var _ domain.TradeStore = (*TradeStore)(nil)
