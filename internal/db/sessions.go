package db

import (
	"context"
	"fmt"
)

func (d *DB) CreateSession(ctx context.Context, id, mode string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO game_sessions (id, mode)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, id, mode)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// EndSession stamps the session closed with its final round count.
func (d *DB) EndSession(ctx context.Context, id string, roundsPlayed int) error {
	_, err := d.conn.ExecContext(ctx, `
		UPDATE game_sessions SET ended_at = now(), rounds_played = $2 WHERE id = $1
	`, id, roundsPlayed)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}
