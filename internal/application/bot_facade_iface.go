package application

import (
	"context"

	"telegram-channel-access/internal/domain/model"
)

// Narrow views of the usecases consumed by the facade. Declared here so the
// facade can be tested without the real engine wiring.

type CodeUseCase interface {
	Create(ctx context.Context, code string, durationDays, maxUses int) (*model.AccessCode, error)
	CreateRandom(ctx context.Context, durationDays, maxUses int) (*model.AccessCode, error)
	List(ctx context.Context) ([]*model.AccessCode, error)
}

type SubscriptionUseCase interface {
	Get(ctx context.Context, userID int64) (*model.Subscription, error)
	List(ctx context.Context) ([]*model.Subscription, error)
	Revoke(ctx context.Context, userID int64) error
}

type RedemptionUseCase interface {
	Redeem(ctx context.Context, userID int64, submittedCode string) (*model.Subscription, string, error)
}
