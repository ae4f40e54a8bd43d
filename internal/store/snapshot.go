package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		snap.Sequence = seq
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (sequence, attempt_id, timestamp, data) VALUES (?, ?, ?, ?)`,
		snap.Sequence, snap.AttemptID, formatTime(snap.Timestamp), string(snap.Data),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}
	snap.ID = int(id)
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, attemptID string) (*Snapshot, error) {
	var (
		s    Snapshot
		ts   string
		data string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sequence, attempt_id, timestamp, data FROM snapshots
		 WHERE attempt_id = ? ORDER BY sequence DESC LIMIT 1`, attemptID,
	).Scan(&s.ID, &s.Sequence, &s.AttemptID, &ts, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if s.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
		return nil, fmt.Errorf("snapshot timestamp: %w", err)
	}
	s.Data = []byte(data)
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, attemptID string, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE attempt_id = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE attempt_id = ? ORDER BY sequence DESC LIMIT ?
		)`, attemptID, attemptID, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
