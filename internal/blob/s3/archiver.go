package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vaultbond/vaultbond/internal/domain"
)

// BlobWriter is the narrow upload surface the archiver needs.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}

// Archiver exports trade history as JSONL files in object storage,
// partitioned by month. Archived rows stay in the primary store; the archive
// is a durable export, not a purge.
type Archiver struct {
	writer BlobWriter
	trades domain.TradeStore
	audit  domain.AuditStore // optional
}

// NewArchiver creates an Archiver. audit may be nil.
func NewArchiver(writer BlobWriter, trades domain.TradeStore, audit domain.AuditStore) *Archiver {
	return &Archiver{
		writer: writer,
		trades: trades,
		audit:  audit,
	}
}

// ArchiveTrades exports all trade records submitted at or after since to
// archive/trades/YYYY-MM.jsonl and returns the number of records written.
// The archival event is recorded in the audit log when one is configured.
func (a *Archiver) ArchiveTrades(ctx context.Context, since time.Time) (int64, error) {
	recs, err := a.trades.ListSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive trades query: %w", err)
	}
	if len(recs) == 0 {
		return 0, nil
	}

	buf, err := marshalJSONL(recs)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive trades marshal: %w", err)
	}

	path := archivePath("trades", since)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return 0, fmt.Errorf("s3blob: archive trades upload: %w", err)
	}

	count := int64(len(recs))

	if a.audit != nil {
		if err := a.audit.Log(ctx, "archive.trades", map[string]any{
			"path":  path,
			"count": count,
			"since": since.Format(time.RFC3339),
		}); err != nil {
			return count, fmt.Errorf("s3blob: archive trades audit log: %w", err)
		}
	}

	return count, nil
}

// archivePath builds the S3 key for an archive file, partitioned by the
// year-month of the window start, e.g. archive/trades/2026-08.jsonl.
func archivePath(kind string, since time.Time) string {
	return fmt.Sprintf("archive/%s/%s.jsonl", kind, since.Format("2006-01"))
}

// marshalJSONL serialises records as newline-delimited JSON.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
