package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pennyverse/internal/domain/reward"

	"github.com/google/uuid"
)

type RewardRepository struct {
	db *DB
}

func NewRewardRepository(db *DB) *RewardRepository {
	return &RewardRepository{db: db}
}

const rewardColumns = `user_id, points, lifetime_points, streak, last_update, created_at, updated_at`

func scanRewards(row interface{ Scan(...any) error }) (*reward.Rewards, error) {
	var rw reward.Rewards
	if err := row.Scan(&rw.UserID, &rw.Points, &rw.LifetimePoints, &rw.Streak, &rw.LastUpdate, &rw.CreatedAt, &rw.UpdatedAt); err != nil {
		return nil, err
	}
	return &rw, nil
}

// GetByUserID returns nil, nil when the user has no rewards row yet.
func (r *RewardRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*reward.Rewards, error) {
	rw, err := scanRewards(r.db.QueryRowContext(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rewards: %w", err)
	}
	return rw, nil
}

// Apply locks the user's row, computes the next state with fn and writes it
// back in the same transaction, so concurrent activity cannot lose points.
func (r *RewardRepository) Apply(ctx context.Context, userID uuid.UUID, fn func(current *reward.Rewards) reward.Rewards) (*reward.Rewards, error) {
	var out *reward.Rewards
	err := r.db.WithTx(ctx, func(tx *Tx) error {
		// Serialises the first insert for users without a row.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID.String()); err != nil {
			return fmt.Errorf("failed to lock rewards: %w", err)
		}

		current, err := scanRewards(tx.QueryRowContext(ctx,
			`SELECT `+rewardColumns+` FROM rewards WHERE user_id = $1 FOR UPDATE`, userID))
		if errors.Is(err, sql.ErrNoRows) {
			current = nil
		} else if err != nil {
			return fmt.Errorf("failed to read rewards: %w", err)
		}

		next := fn(current)

		query := `
			INSERT INTO rewards (user_id, points, lifetime_points, streak, last_update)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE
				SET points = EXCLUDED.points,
				    lifetime_points = EXCLUDED.lifetime_points,
				    streak = EXCLUDED.streak,
				    last_update = EXCLUDED.last_update,
				    updated_at = NOW()
			RETURNING ` + rewardColumns

		out, err = scanRewards(tx.QueryRowContext(ctx, query, userID, next.Points, next.LifetimePoints, next.Streak, next.LastUpdate))
		if err != nil {
			return fmt.Errorf("failed to save rewards: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
