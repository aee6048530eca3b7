package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pennyverse/internal/domain/vault"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type VaultRepository struct {
	db *DB
}

func NewVaultRepository(db *DB) *VaultRepository {
	return &VaultRepository{db: db}
}

const vaultColumns = `id, user_id, goal_name, emoji, target_amount, saved_amount, daily_save_amount,
	streak_days, is_locked, is_broken, broken_at, completed_at, last_save_date, created_at, updated_at`

func scanVault(row interface{ Scan(...any) error }) (*vault.Vault, error) {
	var v vault.Vault
	var brokenAt, completedAt, lastSave sql.NullTime
	err := row.Scan(
		&v.ID, &v.UserID, &v.GoalName, &v.Emoji, &v.TargetAmount, &v.SavedAmount, &v.DailySaveAmount,
		&v.StreakDays, &v.IsLocked, &v.IsBroken, &brokenAt, &completedAt, &lastSave, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if brokenAt.Valid {
		v.BrokenAt = &brokenAt.Time
	}
	if completedAt.Valid {
		v.CompletedAt = &completedAt.Time
	}
	if lastSave.Valid {
		v.LastSaveDate = &lastSave.Time
	}
	return &v, nil
}

func (r *VaultRepository) Create(ctx context.Context, v *vault.Vault) (*vault.Vault, error) {
	query := `
		INSERT INTO goal_vaults (id, user_id, goal_name, emoji, target_amount, saved_amount, daily_save_amount,
		                         streak_days, is_locked, is_broken, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + vaultColumns

	created, err := scanVault(r.db.QueryRowContext(ctx, query,
		v.ID, v.UserID, v.GoalName, v.Emoji, v.TargetAmount, v.SavedAmount, v.DailySaveAmount,
		v.StreakDays, v.IsLocked, v.IsBroken, v.CreatedAt, v.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}
	return created, nil
}

func (r *VaultRepository) GetByID(ctx context.Context, id uuid.UUID) (*vault.Vault, error) {
	v, err := scanVault(r.db.QueryRowContext(ctx, `SELECT `+vaultColumns+` FROM goal_vaults WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vault.ErrVaultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	return v, nil
}

func (r *VaultRepository) ListByUserID(ctx context.Context, userID uuid.UUID, includeBroken bool) ([]*vault.Vault, error) {
	query := `
		SELECT ` + vaultColumns + `
		FROM goal_vaults
		WHERE user_id = $1 AND ($2 OR is_broken = FALSE)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, includeBroken)
	if err != nil {
		return nil, fmt.Errorf("failed to list vaults: %w", err)
	}
	defer rows.Close()

	vaults := []*vault.Vault{}
	for rows.Next() {
		v, err := scanVault(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vault: %w", err)
		}
		vaults = append(vaults, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vaults: %w", err)
	}
	return vaults, nil
}

func (r *VaultRepository) CountActive(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM goal_vaults WHERE user_id = $1 AND is_broken = FALSE`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count vaults: %w", err)
	}
	return n, nil
}

func (r *VaultRepository) WithinTx(ctx context.Context, fn func(tx vault.Tx) error) error {
	return r.db.WithTx(ctx, func(tx *Tx) error {
		return fn(&vaultTx{tx: tx})
	})
}

// vaultTx implements vault.Tx on one open SQL transaction.
type vaultTx struct {
	tx *Tx
}

func (t *vaultTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*vault.Vault, error) {
	v, err := scanVault(t.tx.QueryRowContext(ctx, `SELECT `+vaultColumns+` FROM goal_vaults WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, vault.ErrVaultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock vault: %w", err)
	}
	return v, nil
}

// GetWalletForUpdate locks the profile row, creating it on first use.
func (t *vaultTx) GetWalletForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID,
	); err != nil {
		return decimal.Zero, fmt.Errorf("failed to ensure profile: %w", err)
	}

	var wallet decimal.Decimal
	err := t.tx.QueryRowContext(ctx,
		`SELECT wallet_balance FROM profiles WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&wallet)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return wallet, nil
}

func (t *vaultTx) Update(ctx context.Context, v *vault.Vault) error {
	query := `
		UPDATE goal_vaults
		SET saved_amount = $2,
		    streak_days = $3,
		    is_locked = $4,
		    is_broken = $5,
		    broken_at = $6,
		    completed_at = $7,
		    last_save_date = $8,
		    updated_at = $9
		WHERE id = $1
	`

	res, err := t.tx.ExecContext(ctx, query,
		v.ID, v.SavedAmount, v.StreakDays, v.IsLocked, v.IsBroken,
		v.BrokenAt, v.CompletedAt, v.LastSaveDate, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update vault: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return vault.ErrVaultNotFound
	}
	return nil
}

func (t *vaultTx) SetWallet(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE profiles SET wallet_balance = $2, updated_at = NOW() WHERE user_id = $1`,
		userID, balance,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

// AddBonusPoints credits points without touching the streak. A row created
// here carries an epoch last_update so the next activity still counts as a
// fresh start.
func (t *vaultTx) AddBonusPoints(ctx context.Context, userID uuid.UUID, points int) error {
	query := `
		INSERT INTO rewards (user_id, points, lifetime_points, streak, last_update)
		VALUES ($1, $2, $2, 0, to_timestamp(0))
		ON CONFLICT (user_id) DO UPDATE
			SET points = rewards.points + EXCLUDED.points,
			    lifetime_points = rewards.lifetime_points + EXCLUDED.lifetime_points,
			    updated_at = NOW()
	`
	if _, err := t.tx.ExecContext(ctx, query, userID, points); err != nil {
		return fmt.Errorf("failed to add bonus points: %w", err)
	}
	return nil
}
