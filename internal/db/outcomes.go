package db

import (
	"context"
	"fmt"
	"time"
)

type Outcome struct {
	SessionID   string
	RoundNumber int
	Score       int
	Won         bool
	FinishedAt  time.Time
}

const insertOutcome = `
	INSERT INTO round_outcomes (session_id, round_number, score, won, finished_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (session_id, round_number) DO NOTHING
`

func (d *DB) RecordOutcome(ctx context.Context, o Outcome) error {
	_, err := d.conn.ExecContext(ctx, insertOutcome, o.SessionID, o.RoundNumber, o.Score, o.Won, o.FinishedAt)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordOutcomes(ctx context.Context, outcomes []Outcome) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertOutcome)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, o.SessionID, o.RoundNumber, o.Score, o.Won, o.FinishedAt); err != nil {
			return fmt.Errorf("recording outcome in batch: %w", err)
		}
	}

	return tx.Commit()
}

// SessionOutcomes lists a session's logged rounds in play order.
func (d *DB) SessionOutcomes(ctx context.Context, sessionID string) ([]Outcome, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT session_id, round_number, score, won, finished_at
		FROM round_outcomes WHERE session_id = $1 ORDER BY round_number
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var o Outcome
		if err := rows.Scan(&o.SessionID, &o.RoundNumber, &o.Score, &o.Won, &o.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
