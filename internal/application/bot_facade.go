package application

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/infra/i18n"
)

const expireLayout = "2006-01-02 15:04 MST"

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just
// forwards them to the chat.
type BotFacade struct {
	CodeUC   CodeUseCase
	SubUC    SubscriptionUseCase
	RedeemUC RedemptionUseCase

	tr  *i18n.Translator
	log *zerolog.Logger
}

func NewBotFacade(
	codeUC CodeUseCase,
	subUC SubscriptionUseCase,
	redeemUC RedemptionUseCase,
	tr *i18n.Translator,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		CodeUC:   codeUC,
		SubUC:    subUC,
		RedeemUC: redeemUC,
		tr:       tr,
		log:      logger,
	}
}

// HandleStart returns the welcome text.
func (b *BotFacade) HandleStart(ctx context.Context) string {
	return b.tr.T("welcome_message")
}

// HandleCreateCode creates an explicit admin-chosen code.
func (b *BotFacade) HandleCreateCode(ctx context.Context, code string, days, uses int) string {
	ac, err := b.CodeUC.Create(ctx, code, days, uses)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return b.tr.T("error_code_exists")
		}
		if errors.Is(err, domain.ErrInvalidArgument) {
			return b.tr.T("usage_crear")
		}
		b.log.Error().Err(err).Str("code", code).Msg("create code failed")
		return b.tr.T("error_generic")
	}
	return b.tr.T("success_code_created", ac.Code)
}

// HandleCreateRandomCode generates a code and reports it back to the admin.
func (b *BotFacade) HandleCreateRandomCode(ctx context.Context, days, uses int) string {
	ac, err := b.CodeUC.CreateRandom(ctx, days, uses)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return b.tr.T("usage_crear_auto")
		}
		b.log.Error().Err(err).Msg("create random code failed")
		return b.tr.T("error_generic")
	}
	return b.tr.T("success_code_generated", ac.Code)
}

// HandleListCodes formats all codes as "CODE → used/max usos | days días".
func (b *BotFacade) HandleListCodes(ctx context.Context) string {
	codes, err := b.CodeUC.List(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list codes failed")
		return b.tr.T("error_generic")
	}
	if len(codes) == 0 {
		return b.tr.T("codes_empty")
	}
	var sb strings.Builder
	sb.WriteString(b.tr.T("codes_header") + "\n\n")
	for _, c := range codes {
		sb.WriteString(b.tr.T("codes_line", c.Code, c.CurrentUses, c.MaxUses, c.DurationDays) + "\n")
	}
	return sb.String()
}

// HandleListUsers formats all subscriptions as "ID: userId | Expira: date".
func (b *BotFacade) HandleListUsers(ctx context.Context) string {
	subs, err := b.SubUC.List(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list subscriptions failed")
		return b.tr.T("error_generic")
	}
	if len(subs) == 0 {
		return b.tr.T("users_empty")
	}
	var sb strings.Builder
	sb.WriteString(b.tr.T("users_header") + "\n\n")
	for _, s := range subs {
		sb.WriteString(b.tr.T("users_line", s.UserID, s.ExpireAt.UTC().Format(expireLayout)) + "\n")
	}
	return sb.String()
}

// HandleRevoke removes the user from the channel and the ledger.
func (b *BotFacade) HandleRevoke(ctx context.Context, userID int64) string {
	if err := b.SubUC.Revoke(ctx, userID); err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Msg("revoke failed")
		return b.tr.T("error_generic")
	}
	return b.tr.T("success_user_removed")
}

// HandleRedeem treats free text as a code-redemption attempt and maps every
// engine outcome to a user-facing reply. Storage and gateway detail stays
// in the server-side log.
func (b *BotFacade) HandleRedeem(ctx context.Context, userID int64, text string) string {
	sub, invite, err := b.RedeemUC.Redeem(ctx, userID, text)
	switch {
	case err == nil:
		return b.tr.T("success_access_granted", sub.ExpireAt.UTC().Format(expireLayout), invite)
	case errors.Is(err, domain.ErrAlreadySubscribed):
		return b.tr.T("error_already_subscribed")
	case errors.Is(err, domain.ErrInvalidCode):
		return b.tr.T("error_invalid_code")
	case errors.Is(err, domain.ErrCodeExhausted):
		return b.tr.T("error_code_exhausted")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		// Subscription committed but no invite delivered.
		return b.tr.T("error_invite_failed")
	default:
		b.log.Error().Err(err).Int64("user_id", userID).Msg("redemption failed")
		return b.tr.T("error_generic")
	}
}
