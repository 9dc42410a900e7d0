package repository

import (
	"context"

	"telegram-channel-access/internal/domain/model"
)

// SubscriptionRepository is the port for the per-user subscription ledger.
type SubscriptionRepository interface {
	// Create inserts a subscription. Returns domain.ErrAlreadySubscribed if
	// the user already holds one (primary-key conflict).
	Create(ctx context.Context, tx Tx, sub *model.Subscription) error
	// FindByUser returns the user's subscription or domain.ErrNotFound.
	FindByUser(ctx context.Context, tx Tx, userID int64) (*model.Subscription, error)
	// ListAll returns every subscription, for reporting.
	ListAll(ctx context.Context, tx Tx) ([]*model.Subscription, error)
	// Remove deletes the user's subscription. Idempotent: removing a
	// missing record is not an error.
	Remove(ctx context.Context, tx Tx, userID int64) error
}
