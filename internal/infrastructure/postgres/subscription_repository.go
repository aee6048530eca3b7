package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pennyverse/internal/domain/subscription"

	"github.com/google/uuid"
)

type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, name, cost, renewal_date, created_at`

func scanSubscription(row interface{ Scan(...any) error }) (*subscription.Subscription, error) {
	var s subscription.Subscription
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.Cost, &s.RenewalDate, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error) {
	query := `
		INSERT INTO subscriptions (id, user_id, name, cost, renewal_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + subscriptionColumns

	created, err := scanSubscription(r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Name, s.Cost, s.RenewalDate, s.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return created, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, subscription.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*subscription.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = $1 ORDER BY renewal_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []*subscription.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subs, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subscription.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) UpdateRenewalDate(ctx context.Context, id uuid.UUID, renewal time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE subscriptions SET renewal_date = $2 WHERE id = $1`, id, renewal)
	if err != nil {
		return fmt.Errorf("failed to update renewal date: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM subscriptions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
