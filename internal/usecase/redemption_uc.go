// File: internal/usecase/redemption_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/adapter"
	"telegram-channel-access/internal/domain/ports/repository"
	"telegram-channel-access/internal/infra/metrics"
	red "telegram-channel-access/internal/infra/redis"
)

// RedemptionUseCase orchestrates the redemption protocol: validate the
// submitted code against registry and ledger, commit both writes in one
// transaction, then mint the invite link.
type RedemptionUseCase struct {
	codeRepo repository.CodeRepository
	subRepo  repository.SubscriptionRepository
	txm      repository.TransactionManager
	gateway  adapter.ChannelGateway
	locker   red.Locker // optional; nil disables per-user locking
	lockTTL  time.Duration
	log      *zerolog.Logger
}

func NewRedemptionUseCase(
	codeRepo repository.CodeRepository,
	subRepo repository.SubscriptionRepository,
	txm repository.TransactionManager,
	gateway adapter.ChannelGateway,
	locker red.Locker,
	lockTTL time.Duration,
	logger *zerolog.Logger,
) *RedemptionUseCase {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &RedemptionUseCase{
		codeRepo: codeRepo,
		subRepo:  subRepo,
		txm:      txm,
		gateway:  gateway,
		locker:   locker,
		lockTTL:  lockTTL,
		log:      logger,
	}
}

// Redeem exchanges a submitted code for a subscription and a single-use
// invite link.
//
// Validation and commit run inside one transaction: an existing
// subscription rejects the attempt unconditionally (even if already
// expired), an unknown code maps to ErrInvalidCode, an exhausted one to
// ErrCodeExhausted. The use-counter increment is guarded by the max_uses
// bound inside the same transaction, so concurrent redemptions can never
// push current_uses past max_uses.
//
// The invite is minted after the commit. If the gateway call fails the
// committed subscription stays in place and the subscription is returned
// together with ErrGatewayUnavailable, so the caller can tell a delivery
// failure apart from a rejection.
func (uc *RedemptionUseCase) Redeem(ctx context.Context, userID int64, submittedCode string) (*model.Subscription, string, error) {
	normalized := model.NormalizeCode(submittedCode)
	if normalized == "" {
		metrics.IncRedemption("invalid_code")
		return nil, "", domain.ErrInvalidCode
	}

	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, red.RedeemLockKey(userID), uc.lockTTL)
		if err != nil {
			metrics.IncRedemption("error")
			return nil, "", err
		}
		defer func() {
			if uerr := uc.locker.Unlock(ctx, red.RedeemLockKey(userID), token); uerr != nil {
				uc.log.Warn().Err(uerr).Int64("user_id", userID).Msg("failed to release redemption lock")
			}
		}()
	}

	var sub *model.Subscription
	err := uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if _, err := uc.subRepo.FindByUser(ctx, tx, userID); err == nil {
			return domain.ErrAlreadySubscribed
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		code, err := uc.codeRepo.FindByCode(ctx, tx, normalized)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		if err != nil {
			return err
		}
		if code.Exhausted() {
			return domain.ErrCodeExhausted
		}

		sub, err = model.NewSubscription(userID, code, time.Now())
		if err != nil {
			return err
		}
		if err := uc.subRepo.Create(ctx, tx, sub); err != nil {
			return err
		}
		return uc.codeRepo.IncrementUse(ctx, tx, normalized)
	})
	if err != nil {
		metrics.IncRedemption(redemptionResult(err))
		return nil, "", err
	}

	invite, err := uc.gateway.CreateInviteLink(ctx)
	if err != nil {
		// The subscription is already committed; keep it and report a
		// delivery failure. The admin reconciles manually.
		uc.log.Error().Err(err).Int64("user_id", userID).Str("code", normalized).Msg("invite creation failed after commit")
		metrics.IncRedemption("error")
		return sub, "", domain.ErrGatewayUnavailable
	}

	metrics.IncRedemption("granted")
	metrics.IncInviteIssued()
	uc.log.Info().Int64("user_id", userID).Str("code", normalized).Time("expire_at", sub.ExpireAt).Msg("access granted")
	return sub, invite, nil
}

func redemptionResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadySubscribed):
		return "already_subscribed"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrCodeExhausted):
		return "exhausted"
	default:
		return "error"
	}
}
