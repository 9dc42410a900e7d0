package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/repository"
	"telegram-channel-access/internal/infra/metrics"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) repository.SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

// Create inserts the user's subscription. A primary-key conflict means the
// one-subscription-per-user invariant would be violated.
func (r *subscriptionRepo) Create(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (user_id, expire_at, code_used, created_at)
VALUES ($1, $2, $3, $4);
`
	_, err := execSQL(ctx, r.pool, tx, q, s.UserID, s.ExpireAt, s.CodeUsed, s.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		case isUniqueViolation(err):
			return domain.ErrAlreadySubscribed
		default:
			metrics.IncDBError("subscriptions_create")
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *subscriptionRepo) FindByUser(ctx context.Context, tx repository.Tx, userID int64) (*model.Subscription, error) {
	const q = `
SELECT user_id, expire_at, code_used, created_at
  FROM subscriptions
 WHERE user_id = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}

	var s model.Subscription
	err = row.Scan(&s.UserID, &s.ExpireAt, &s.CodeUsed, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncDBError("subscriptions_find")
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *subscriptionRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	const q = `
SELECT user_id, expire_at, code_used, created_at
  FROM subscriptions
 ORDER BY created_at ASC;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			metrics.IncDBError("subscriptions_list")
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(&s.UserID, &s.ExpireAt, &s.CodeUsed, &s.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

// Remove deletes the user's subscription. Deleting a missing record is a
// no-op, which keeps revocation idempotent.
func (r *subscriptionRepo) Remove(ctx context.Context, tx repository.Tx, userID int64) error {
	const q = `DELETE FROM subscriptions WHERE user_id = $1;`
	_, err := execSQL(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			metrics.IncDBError("subscriptions_remove")
			return domain.ErrOperationFailed
		}
	}
	return nil
}
