package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/catadaptive/pharmcat/internal/session"
)

// SessionSummary is one row of the session listing, enough for a picker or a
// status table without deserializing the full snapshot.
type SessionSummary struct {
	SessionID        string
	LearnerName      string
	Complete         bool
	CompletionReason string
	Theta            float64
	StandardError    float64
	ItemCount        int
	UpdatedAt        time.Time
}

// SessionRepo persists session snapshots, keyed by session ID. Callers must
// ensure at most one writer per session ID; the repo does not arbitrate
// concurrent saves of the same session.
type SessionRepo interface {
	// SaveSnapshot inserts or replaces the stored snapshot for its session.
	SaveSnapshot(ctx context.Context, snap session.Snapshot) error

	// LoadSnapshot returns the stored snapshot, or ErrNotFound.
	LoadSnapshot(ctx context.Context, sessionID string) (session.Snapshot, error)

	// ListSessions returns summaries of all stored sessions, most recently
	// updated first.
	ListSessions(ctx context.Context) ([]SessionSummary, error)

	// DeleteSession removes a stored session, or ErrNotFound.
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) SaveSnapshot(ctx context.Context, snap session.Snapshot) error {
	if snap.SessionID == "" {
		return fmt.Errorf("save snapshot: empty session id")
	}
	if len(snap.AbilityHistory) == 0 {
		return fmt.Errorf("save snapshot %s: no ability history", snap.SessionID)
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	latest := snap.AbilityHistory[len(snap.AbilityHistory)-1]

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, learner_name, complete, completion_reason,
			theta, standard_error, item_count, snapshot, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			learner_name = excluded.learner_name,
			complete = excluded.complete,
			completion_reason = excluded.completion_reason,
			theta = excluded.theta,
			standard_error = excluded.standard_error,
			item_count = excluded.item_count,
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		snap.SessionID, snap.Learner.Name, snap.Complete, string(snap.CompletionReason),
		latest.Theta, latest.StandardError, len(snap.Responses), string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.SessionID, err)
	}
	return nil
}

func (r *sessionRepo) LoadSnapshot(ctx context.Context, sessionID string) (session.Snapshot, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		"SELECT snapshot FROM sessions WHERE session_id = ?", sessionID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("load snapshot %s: %w", sessionID, err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("unmarshal snapshot %s: %w", sessionID, err)
	}
	return snap, nil
}

func (r *sessionRepo) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, learner_name, complete, completion_reason,
			theta, standard_error, item_count, updated_at
		FROM sessions
		ORDER BY updated_at DESC, session_id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.LearnerName, &s.Complete, &s.CompletionReason,
			&s.Theta, &s.StandardError, &s.ItemCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *sessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
