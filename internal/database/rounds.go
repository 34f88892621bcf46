package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordRoundResult archives one finished round: the room it was played in,
// each player's score, and whether they shared the win. No-op without a pool.
func RecordRoundResult(ctx context.Context, roomCode string, scores map[string]int, winners []string) error {
	if DB == nil {
		return nil
	}

	roundID := uuid.New()
	won := make(map[string]bool, len(winners))
	for _, name := range winners {
		won[name] = true
	}

	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insertRound := `
			INSERT INTO rounds (id, room_code)
			VALUES ($1, $2)
		`
		if _, e := tx.Exec(ctx, insertRound, roundID, roomCode); e != nil {
			return e
		}
		insertResult := `
			INSERT INTO round_results (round_id, player_name, score, did_win)
			VALUES ($1, $2, $3, $4)
		`
		for name, score := range scores {
			if _, e := tx.Exec(ctx, insertResult, roundID, name, score, won[name]); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert round results: %w", err)
	}
	return nil
}
