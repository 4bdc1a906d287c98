package s3blob

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultbond/vaultbond/internal/domain"
)

type memWriter struct {
	path        string
	contentType string
	body        []byte
}

func (m *memWriter) Put(ctx context.Context, path string, data io.Reader, contentType string) error {
	m.path = path
	m.contentType = contentType
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.body = body
	return nil
}

type memTradeStore struct {
	domain.TradeStore
	recs []domain.TradeRecord
}

func (m *memTradeStore) ListSince(ctx context.Context, since time.Time) ([]domain.TradeRecord, error) {
	return m.recs, nil
}

func TestArchiveTradesWritesMonthlyJSONL(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	store := &memTradeStore{recs: []domain.TradeRecord{
		{ID: "a", Wallet: "0x1", BondID: "bond-1", Direction: domain.DirectionBuy, State: domain.StateSucceeded},
		{ID: "b", Wallet: "0x2", BondID: "bond-2", Direction: domain.DirectionSell, State: domain.StateFailed},
	}}
	w := &memWriter{}

	count, err := NewArchiver(w, store, nil).ArchiveTrades(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, int64(2), count)
	assert.Equal(t, "archive/trades/2026-08.jsonl", w.path)
	assert.Equal(t, "application/x-ndjson", w.contentType)
	lines := bytes.Split(bytes.TrimSpace(w.body), []byte("\n"))
	assert.Len(t, lines, 2)
}

func TestArchiveTradesEmptyWindowWritesNothing(t *testing.T) {
	w := &memWriter{}
	count, err := NewArchiver(w, &memTradeStore{}, nil).ArchiveTrades(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, w.path)
}
