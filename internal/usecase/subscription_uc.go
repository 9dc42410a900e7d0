// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/adapter"
	"telegram-channel-access/internal/domain/ports/repository"
	"telegram-channel-access/internal/infra/metrics"
)

// SubscriptionUseCase implements the subscription-ledger operations and
// admin revocation.
type SubscriptionUseCase struct {
	subRepo repository.SubscriptionRepository
	gateway adapter.ChannelGateway
	log     *zerolog.Logger
}

func NewSubscriptionUseCase(subRepo repository.SubscriptionRepository, gateway adapter.ChannelGateway, logger *zerolog.Logger) *SubscriptionUseCase {
	return &SubscriptionUseCase{subRepo: subRepo, gateway: gateway, log: logger}
}

// Get returns the user's subscription or domain.ErrNotFound.
func (uc *SubscriptionUseCase) Get(ctx context.Context, userID int64) (*model.Subscription, error) {
	return uc.subRepo.FindByUser(ctx, repository.NoTX, userID)
}

// List returns all subscriptions for reporting.
func (uc *SubscriptionUseCase) List(ctx context.Context) ([]*model.Subscription, error) {
	return uc.subRepo.ListAll(ctx, repository.NoTX)
}

// Revoke kicks the user out of the channel and removes the ledger record.
// The kick is a ban immediately followed by an unban, so the user can join
// again later through a fresh invite. Gateway failures are logged and do
// not block the removal; the whole operation is idempotent.
func (uc *SubscriptionUseCase) Revoke(ctx context.Context, userID int64) error {
	if err := uc.gateway.Kick(ctx, userID); err != nil {
		uc.log.Warn().Err(err).Int64("user_id", userID).Msg("channel kick failed, removing subscription anyway")
	}
	if err := uc.subRepo.Remove(ctx, repository.NoTX, userID); err != nil {
		return err
	}
	metrics.IncRevocation()
	uc.log.Info().Int64("user_id", userID).Msg("subscription revoked")
	return nil
}
