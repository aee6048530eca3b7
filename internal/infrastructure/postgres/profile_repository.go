package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pennyverse/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// checkViolation is the SQLSTATE Postgres returns when a CHECK constraint fails.
const checkViolation = "23514"

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, wallet_balance, monthly_income, upi_id, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*profile.Profile, error) {
	var p profile.Profile
	if err := row.Scan(&p.UserID, &p.WalletBalance, &p.MonthlyIncome, &p.UPIID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query := `
		INSERT INTO profiles (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, params profile.UpdateParams) (*profile.Profile, error) {
	var income decimal.NullDecimal
	if params.MonthlyIncome != nil {
		income = decimal.NewNullDecimal(*params.MonthlyIncome)
	}
	var upi sql.NullString
	if params.UPIID != nil {
		upi = sql.NullString{String: *params.UPIID, Valid: true}
	}

	query := `
		UPDATE profiles
		SET monthly_income = COALESCE($2, monthly_income),
		    upi_id = COALESCE($3, upi_id),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID, income, upi))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) AdjustWallet(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (*profile.Profile, error) {
	query := `
		UPDATE profiles
		SET wallet_balance = wallet_balance + $2,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID, delta))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrProfileNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == checkViolation {
		return nil, profile.ErrInsufficientFunds
	}
	if err != nil {
		return nil, fmt.Errorf("failed to adjust wallet: %w", err)
	}
	return p, nil
}
