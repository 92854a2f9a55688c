package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// ResponseEvent is one appended response observation. Events are append-only
// and ordered by a global sequence so a session's history can be audited or
// re-derived after the fact.
type ResponseEvent struct {
	Sequence   int64
	SessionID  string
	ItemID     string
	Correct    bool
	Score      float64
	TimeMs     int64
	ThetaAfter float64
	SEAfter    float64
	Method     string
	Timestamp  time.Time
}

// EventRepo appends and reads response events.
type EventRepo interface {
	// AppendResponseEvent stores one event under the next global sequence.
	AppendResponseEvent(ctx context.Context, ev ResponseEvent) error

	// ResponseEvents returns a session's events in sequence order.
	ResponseEvents(ctx context.Context, sessionID string) ([]ResponseEvent, error)
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendResponseEvent(ctx context.Context, ev ResponseEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO response_events (sequence, session_id, item_id, correct,
			score, time_ms, theta_after, se_after, method, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, ev.SessionID, ev.ItemID, ev.Correct,
		ev.Score, ev.TimeMs, ev.ThetaAfter, ev.SEAfter, ev.Method, ts,
	)
	if err != nil {
		return fmt.Errorf("save response event: %w", err)
	}
	return nil
}

func (r *eventRepo) ResponseEvents(ctx context.Context, sessionID string) ([]ResponseEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sequence, session_id, item_id, correct, score, time_ms,
			theta_after, se_after, method, timestamp
		FROM response_events
		WHERE session_id = ?
		ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query response events: %w", err)
	}
	defer rows.Close()

	var events []ResponseEvent
	for rows.Next() {
		var ev ResponseEvent
		if err := rows.Scan(&ev.Sequence, &ev.SessionID, &ev.ItemID, &ev.Correct,
			&ev.Score, &ev.TimeMs, &ev.ThetaAfter, &ev.SEAfter, &ev.Method, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan response event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// sequenceCounter manages the global monotonic sequence number shared across
// all event appends. The mutex serializes within the process; the RETURNING
// clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
