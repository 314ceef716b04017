package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder.
type eventRepo struct {
	drv *entsql.Driver
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendRequestEvent(ctx context.Context, data RequestEventData) error {
	attempt := data.Attempt
	if attempt == 0 {
		attempt = 1
	}
	query, args := builder().Insert(tableRequestEvents).
		Columns("timestamp", "request_id", "method", "path", "status", "latency_ms", "attempt", "success", "error_message").
		Values(nowMillis(), data.RequestID, data.Method, data.Path, data.Status, data.LatencyMs, attempt, boolInt(data.Success), data.ErrorMessage).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendClientEvent(ctx context.Context, data ClientEventData) error {
	query, args := builder().Insert(tableClientEvents).
		Columns("timestamp", "kind", "screen", "message").
		Values(nowMillis(), string(data.Kind), data.Screen, data.Message).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save client event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	query, args := builder().Insert(tableSessionEvents).
		Columns("timestamp", "session_id", "test_id", "action", "question_id", "selected", "answered", "score").
		Values(nowMillis(), data.SessionID, data.TestID, data.Action, data.QuestionID, data.Selected, data.Answered, data.Score).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	b := builder()
	sel := b.Select("id", "timestamp", "request_id", "method", "path", "status", "latency_ms", "attempt", "success", "error_message").
		From(b.Table(tableRequestEvents))
	applyOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEventRecord
	for rows.Next() {
		var rec RequestEventRecord
		var ts int64
		var success int
		if err := rows.Scan(&rec.ID, &ts, &rec.RequestID, &rec.Method, &rec.Path, &rec.Status,
			&rec.LatencyMs, &rec.Attempt, &success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryClientEvents(ctx context.Context, opts QueryOpts) ([]ClientEventRecord, error) {
	b := builder()
	sel := b.Select("id", "timestamp", "kind", "screen", "message").
		From(b.Table(tableClientEvents))
	applyOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query client events: %w", err)
	}
	defer rows.Close()

	var out []ClientEventRecord
	for rows.Next() {
		var rec ClientEventRecord
		var ts int64
		var kind string
		if err := rows.Scan(&rec.ID, &ts, &kind, &rec.Screen, &rec.Message); err != nil {
			return nil, fmt.Errorf("scan client event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Kind = ClientEventKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, sessionID string) ([]SessionEventRecord, error) {
	b := builder()
	query, args := b.Select("id", "timestamp", "session_id", "test_id", "action", "question_id", "selected", "answered", "score").
		From(b.Table(tableSessionEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("id")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var rec SessionEventRecord
		var ts int64
		if err := rows.Scan(&rec.ID, &ts, &rec.SessionID, &rec.TestID, &rec.Action, &rec.QuestionID,
			&rec.Selected, &rec.Answered, &rec.Score); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// applyOpts adds filtering, newest-first ordering and the limit.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("id", opts.After))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
