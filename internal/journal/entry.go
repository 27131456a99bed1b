package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/ordersctl/internal/api"
)

// Entry is one journaled call.
type Entry struct {
	Seq        int64         `json:"seq" yaml:"seq"`
	RequestID  string        `json:"request_id" yaml:"request_id"`
	Op         api.Operation `json:"op" yaml:"op"`
	OrderID    string        `json:"order_id,omitempty" yaml:"order_id,omitempty"`
	StatusCode int           `json:"status_code" yaml:"status_code"`
	OK         bool          `json:"ok" yaml:"ok"`
	Message    string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	RecordedAt time.Time     `json:"recorded_at" yaml:"recorded_at"`
}

// Record appends call to the journal and returns the stored entry. SQLite
// assigns seq inside the insert, so journals opened on the same file by
// different processes never collide. A request id already present is not
// stored again; the existing entry is returned instead.
func (j *Journal) Record(ctx context.Context, call api.Call) (Entry, error) {
	e := Entry{
		RequestID:  call.RequestID,
		Op:         call.Op,
		OrderID:    call.OrderID,
		StatusCode: call.StatusCode,
		OK:         call.OK(),
		Duration:   call.Duration,
		RecordedAt: j.now().UTC(),
	}
	if call.Err != nil {
		e.Message = call.Err.Error()
	}

	err := j.db.QueryRowContext(ctx, `
		INSERT INTO calls
		(request_id, op, order_id, status_code, ok, message, duration_us, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO NOTHING
		RETURNING seq
	`,
		e.RequestID,
		string(e.Op),
		e.OrderID,
		e.StatusCode,
		e.OK,
		e.Message,
		e.Duration.Microseconds(),
		e.RecordedAt.Format(time.RFC3339Nano),
	).Scan(&e.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return j.byRequestID(ctx, call.RequestID)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("record call: %w", err)
	}
	return e, nil
}

// byRequestID loads the entry stored for requestID.
func (j *Journal) byRequestID(ctx context.Context, requestID string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT seq, request_id, op, order_id, status_code, ok, message, duration_us, recorded_at
		FROM calls WHERE request_id = ?
	`, requestID)
	e, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("load call %q: %w", requestID, err)
	}
	return e, nil
}

// Observe implements api.Observer. Write failures are logged, never
// surfaced to the caller of the API.
func (j *Journal) Observe(ctx context.Context, call api.Call) {
	// The call's own context may already be cancelled; the row should still land.
	if _, err := j.Record(context.WithoutCancel(ctx), call); err != nil {
		slog.WarnContext(ctx, "journal write failed", "op", call.Op, "request_id", call.RequestID, "error", err)
	}
}

var _ api.Observer = (*Journal)(nil)

// Recent returns up to limit of the newest entries in ascending seq order.
// limit <= 0 returns every entry.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, request_id, op, order_id, status_code, ok, message, duration_us, recorded_at
		FROM (
			SELECT * FROM calls ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return entries, nil
}

// OpenOrderIDs returns the ids of orders created through this journal's
// client that have not been deleted since, oldest first. A successful reset
// empties the set.
func (j *Journal) OpenOrderIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT c.order_id
		FROM calls c
		WHERE c.op = ? AND c.ok = 1 AND c.order_id != ''
		  AND c.seq > COALESCE((SELECT MAX(seq) FROM calls WHERE op = ? AND ok = 1), 0)
		  AND NOT EXISTS (
			SELECT 1 FROM calls d
			WHERE d.op = ? AND d.ok = 1 AND d.order_id = c.order_id AND d.seq > c.seq
		  )
		ORDER BY c.seq ASC
	`, string(api.OpCreateOrder), string(api.OpResetOrders), string(api.OpDeleteOrder))
	if err != nil {
		return nil, fmt.Errorf("query open orders: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open orders: %w", err)
	}
	return ids, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(rows scanner) (Entry, error) {
	var (
		e          Entry
		op         string
		durationUS int64
		recordedAt string
	)
	if err := rows.Scan(&e.Seq, &e.RequestID, &op, &e.OrderID, &e.StatusCode, &e.OK, &e.Message, &durationUS, &recordedAt); err != nil {
		return Entry{}, fmt.Errorf("scan call: %w", err)
	}
	e.Op = api.Operation(op)
	e.Duration = time.Duration(durationUS) * time.Microsecond

	ts, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
	}
	e.RecordedAt = ts
	return e, nil
}
