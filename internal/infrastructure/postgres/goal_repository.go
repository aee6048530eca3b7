package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pennyverse/internal/domain/goal"

	"github.com/google/uuid"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, title, target_amount, current_amount, deadline, emoji, completed_at, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (*goal.Goal, error) {
	var g goal.Goal
	var completedAt sql.NullTime
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Emoji, &completedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		g.CompletedAt = &completedAt.Time
	}
	return &g, nil
}

func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) (*goal.Goal, error) {
	query := `
		INSERT INTO savings_goals (id, user_id, title, target_amount, current_amount, deadline, emoji, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + goalColumns

	created, err := scanGoal(r.db.QueryRowContext(ctx, query,
		g.ID, g.UserID, g.Title, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Emoji, g.CreatedAt, g.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return created, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status goal.Status) ([]*goal.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM savings_goals
		WHERE user_id = $1 AND ($2 OR completed_at IS NULL)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, status == goal.StatusAll)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []*goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}

func (r *GoalRepository) Update(ctx context.Context, id uuid.UUID, fn func(g *goal.Goal) error) (*goal.Goal, error) {
	var out *goal.Goal
	err := r.db.WithTx(ctx, func(tx *Tx) error {
		g, err := scanGoal(tx.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return goal.ErrGoalNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock goal: %w", err)
		}

		if err := fn(g); err != nil {
			return err
		}

		query := `
			UPDATE savings_goals
			SET current_amount = $2,
			    completed_at = $3,
			    updated_at = $4
			WHERE id = $1
			RETURNING ` + goalColumns

		out, err = scanGoal(tx.QueryRowContext(ctx, query, g.ID, g.CurrentAmount, g.CompletedAt, g.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
