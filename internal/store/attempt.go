package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talentprep/scorekit/internal/rolling"
)

type attemptRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *attemptRepo) Append(ctx context.Context, a rolling.Attempt) (rolling.Attempt, error) {
	if a.Kind == "" {
		return rolling.Attempt{}, errors.New("attempt kind is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return rolling.Attempt{}, fmt.Errorf("marshal answers: %w", err)
	}

	seq, err := r.seq.Next(ctx)
	if err != nil {
		return rolling.Attempt{}, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO attempts (id, sequence, kind, answers, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, seq, a.Kind, string(answers), formatTime(a.CreatedAt),
	)
	if err != nil {
		return rolling.Attempt{}, fmt.Errorf("save attempt: %w", err)
	}
	return a, nil
}

func (r *attemptRepo) Get(ctx context.Context, id string) (*rolling.Attempt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, answers, created_at FROM attempts WHERE id = ?`, id)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt %s: %w", id, err)
	}
	return &a, nil
}

func (r *attemptRepo) List(ctx context.Context, opts QueryOpts) ([]rolling.Attempt, error) {
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, opts.Kind)
	}
	if !opts.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(opts.From))
	}
	if !opts.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, formatTime(opts.To))
	}

	q := `SELECT id, kind, answers, created_at FROM attempts`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []rolling.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attemptRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attempts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete attempt %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// created_at is written with formatTime; RFC3339Nano parsing accepts it.
func scanAttempt(s scanner) (rolling.Attempt, error) {
	var (
		a       rolling.Attempt
		answers string
		created string
	)
	if err := s.Scan(&a.ID, &a.Kind, &answers, &created); err != nil {
		return rolling.Attempt{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return rolling.Attempt{}, fmt.Errorf("created_at: %w", err)
	}
	a.CreatedAt = t

	dec := json.NewDecoder(bytes.NewReader([]byte(answers)))
	dec.UseNumber()
	if err := dec.Decode(&a.Answers); err != nil {
		return rolling.Attempt{}, fmt.Errorf("answers: %w", err)
	}
	return a, nil
}
