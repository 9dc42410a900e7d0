//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/repository"
	"telegram-channel-access/internal/usecase"
)

func newRedemptionUC(codeRepo *memCodeRepo, subRepo *memSubRepo, gw *MockGateway) *usecase.RedemptionUseCase {
	return usecase.NewRedemptionUseCase(codeRepo, subRepo, NewMockTxManager(), gw, nil, 0, newTestLogger())
}

func seedCode(t *testing.T, repo *memCodeRepo, code string, days, uses int) {
	t.Helper()
	ac, err := model.NewAccessCode(code, days, uses)
	if err != nil {
		t.Fatalf("seed code: %v", err)
	}
	if err := repo.Create(context.Background(), repository.NoTX, ac); err != nil {
		t.Fatalf("seed code: %v", err)
	}
}

func TestRedemptionUseCase_Redeem(t *testing.T) {
	ctx := context.Background()

	t.Run("full promo scenario: grant, exhaust, reject repeat", func(t *testing.T) {
		codeRepo := newMemCodeRepo()
		subRepo := newMemSubRepo()
		gw := &MockGateway{}
		uc := newRedemptionUC(codeRepo, subRepo, gw)
		seedCode(t, codeRepo, "PROMO", 30, 1)

		// U1 redeems lowercase input.
		before := time.Now().UTC()
		sub, invite, err := uc.Redeem(ctx, 1001, "promo")
		if err != nil {
			t.Fatalf("expected grant, got: %v", err)
		}
		if invite == "" {
			t.Error("expected an invite link")
		}
		if sub.CodeUsed != "PROMO" {
			t.Errorf("expected CodeUsed PROMO, got %q", sub.CodeUsed)
		}
		want := before.Add(30 * 24 * time.Hour)
		if d := sub.ExpireAt.Sub(want); d < 0 || d > 2*time.Second {
			t.Errorf("expire_at drifted: got %v, want ~%v", sub.ExpireAt, want)
		}
		code, _ := codeRepo.FindByCode(ctx, repository.NoTX, "PROMO")
		if code.CurrentUses != 1 {
			t.Errorf("expected current_uses=1, got %d", code.CurrentUses)
		}

		// U2 hits the exhausted code.
		if _, _, err := uc.Redeem(ctx, 1002, "PROMO"); !errors.Is(err, domain.ErrCodeExhausted) {
			t.Fatalf("expected ErrCodeExhausted, got: %v", err)
		}
		if _, err := subRepo.FindByUser(ctx, repository.NoTX, 1002); !errors.Is(err, domain.ErrNotFound) {
			t.Error("rejected user must not get a subscription")
		}

		// U1 redeems again.
		if _, _, err := uc.Redeem(ctx, 1001, "PROMO"); !errors.Is(err, domain.ErrAlreadySubscribed) {
			t.Fatalf("expected ErrAlreadySubscribed, got: %v", err)
		}
		code, _ = codeRepo.FindByCode(ctx, repository.NoTX, "PROMO")
		if code.CurrentUses != 1 {
			t.Errorf("rejected attempts must not change the counter, got %d", code.CurrentUses)
		}
	})

	t.Run("should reject an unknown code", func(t *testing.T) {
		uc := newRedemptionUC(newMemCodeRepo(), newMemSubRepo(), &MockGateway{})

		if _, _, err := uc.Redeem(ctx, 1, "NOPE"); !errors.Is(err, domain.ErrInvalidCode) {
			t.Fatalf("expected ErrInvalidCode, got: %v", err)
		}
	})

	t.Run("should reject blank input without touching the store", func(t *testing.T) {
		uc := newRedemptionUC(newMemCodeRepo(), newMemSubRepo(), &MockGateway{})

		if _, _, err := uc.Redeem(ctx, 1, "   "); !errors.Is(err, domain.ErrInvalidCode) {
			t.Fatalf("expected ErrInvalidCode, got: %v", err)
		}
	})

	t.Run("should reject a second redemption even when the subscription expired", func(t *testing.T) {
		codeRepo := newMemCodeRepo()
		subRepo := newMemSubRepo()
		uc := newRedemptionUC(codeRepo, subRepo, &MockGateway{})
		seedCode(t, codeRepo, "FRESH", 30, 5)

		expired := &model.Subscription{
			UserID:    42,
			ExpireAt:  time.Now().UTC().Add(-48 * time.Hour),
			CodeUsed:  "OLD",
			CreatedAt: time.Now().UTC().Add(-31 * 24 * time.Hour),
		}
		if err := subRepo.Create(ctx, repository.NoTX, expired); err != nil {
			t.Fatalf("seed subscription: %v", err)
		}

		if _, _, err := uc.Redeem(ctx, 42, "FRESH"); !errors.Is(err, domain.ErrAlreadySubscribed) {
			t.Fatalf("expected ErrAlreadySubscribed, got: %v", err)
		}
		code, _ := codeRepo.FindByCode(ctx, repository.NoTX, "FRESH")
		if code.CurrentUses != 0 {
			t.Errorf("counter must stay at 0, got %d", code.CurrentUses)
		}
		kept, _ := subRepo.FindByUser(ctx, repository.NoTX, 42)
		if kept.CodeUsed != "OLD" {
			t.Errorf("existing subscription must not be altered: %+v", kept)
		}
	})

	t.Run("uppercase and lowercase submissions are equivalent", func(t *testing.T) {
		codeRepo := newMemCodeRepo()
		uc := newRedemptionUC(codeRepo, newMemSubRepo(), &MockGateway{})
		seedCode(t, codeRepo, "ABC123", 7, 2)

		if _, _, err := uc.Redeem(ctx, 1, "abc123"); err != nil {
			t.Fatalf("lowercase input should match: %v", err)
		}
		if _, _, err := uc.Redeem(ctx, 2, "ABC123"); err != nil {
			t.Fatalf("uppercase input should match: %v", err)
		}
	})

	t.Run("gateway failure keeps the committed subscription", func(t *testing.T) {
		codeRepo := newMemCodeRepo()
		subRepo := newMemSubRepo()
		gw := &MockGateway{
			CreateInviteLinkFunc: func(ctx context.Context) (string, error) {
				return "", errors.New("telegram: 500")
			},
		}
		uc := newRedemptionUC(codeRepo, subRepo, gw)
		seedCode(t, codeRepo, "PROMO", 30, 1)

		sub, invite, err := uc.Redeem(ctx, 7, "PROMO")
		if !errors.Is(err, domain.ErrGatewayUnavailable) {
			t.Fatalf("expected ErrGatewayUnavailable, got: %v", err)
		}
		if invite != "" {
			t.Error("no invite should be returned on gateway failure")
		}
		if sub == nil {
			t.Fatal("committed subscription should be returned to the caller")
		}
		if _, err := subRepo.FindByUser(ctx, repository.NoTX, 7); err != nil {
			t.Error("subscription must remain committed after gateway failure")
		}
		code, _ := codeRepo.FindByCode(ctx, repository.NoTX, "PROMO")
		if code.CurrentUses != 1 {
			t.Errorf("use counter must remain incremented, got %d", code.CurrentUses)
		}
	})

	t.Run("lock acquisition failure aborts before any write", func(t *testing.T) {
		codeRepo := newMemCodeRepo()
		subRepo := newMemSubRepo()
		locker := &MockLocker{
			TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (string, error) {
				return "", domain.ErrLockNotAcquired
			},
		}
		uc := usecase.NewRedemptionUseCase(codeRepo, subRepo, NewMockTxManager(), &MockGateway{}, locker, time.Second, newTestLogger())
		seedCode(t, codeRepo, "PROMO", 30, 1)

		if _, _, err := uc.Redeem(ctx, 9, "PROMO"); !errors.Is(err, domain.ErrLockNotAcquired) {
			t.Fatalf("expected ErrLockNotAcquired, got: %v", err)
		}
		code, _ := codeRepo.FindByCode(ctx, repository.NoTX, "PROMO")
		if code.CurrentUses != 0 {
			t.Errorf("no write should happen without the lock, got %d uses", code.CurrentUses)
		}
	})

	t.Run("lock is released after a successful redemption", func(t *testing.T) {
		codeRepo := newMemCodeRepo()
		locker := &MockLocker{}
		uc := usecase.NewRedemptionUseCase(codeRepo, newMemSubRepo(), NewMockTxManager(), &MockGateway{}, locker, time.Second, newTestLogger())
		seedCode(t, codeRepo, "PROMO", 30, 1)

		if _, _, err := uc.Redeem(ctx, 9, "PROMO"); err != nil {
			t.Fatalf("expected grant, got: %v", err)
		}
		if len(locker.Unlocked) != 1 {
			t.Errorf("expected exactly one unlock, got %d", len(locker.Unlocked))
		}
	})
}
