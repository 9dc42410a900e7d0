package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-channel-access/internal/infra/logging"
	"telegram-channel-access/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
// Keywords follow the original Spanish command surface.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,

		// These handlers are wrapped in our adminOnly middleware.
		"crear":      r.adminOnly(r.handleCreateCodeCommand),
		"crear_auto": r.adminOnly(r.handleCreateRandomCodeCommand),
		"codigos":    r.adminOnly(r.handleListCodesCommand),
		"usuarios":   r.adminOnly(r.handleListUsersCommand),
		"eliminar":   r.adminOnly(r.handleRevokeCommand),
	}
}

// adminOnly silently drops admin commands from anyone but the configured
// admin. No reply is sent, so the command surface stays invisible.
func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if message.From.ID != r.cfg.AdminID {
			metrics.IncAdminCommand("/"+message.Command(), "unauthorized")
			logging.With(ctx, r.log).Debug().Str("command", message.Command()).Msg("admin command from non-admin ignored")
			return nil
		}
		metrics.IncAdminCommand("/"+message.Command(), "authorized")
		return next(ctx, message)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleStart(ctx))
}

// handleCreateCodeCommand handles /crear CODIGO DIAS USOS.
func (r *RealTelegramBotAdapter) handleCreateCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 3 {
		return r.SendMessage(ctx, message.Chat.ID, r.tr.T("usage_crear"))
	}

	code := args[0]
	days, err1 := strconv.Atoi(args[1])
	uses, err2 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil {
		return r.SendMessage(ctx, message.Chat.ID, r.tr.T("usage_crear"))
	}

	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleCreateCode(ctx, code, days, uses))
}

// handleCreateRandomCodeCommand handles /crear_auto DIAS USOS.
func (r *RealTelegramBotAdapter) handleCreateRandomCodeCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		return r.SendMessage(ctx, message.Chat.ID, r.tr.T("usage_crear_auto"))
	}

	days, err1 := strconv.Atoi(args[0])
	uses, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return r.SendMessage(ctx, message.Chat.ID, r.tr.T("usage_crear_auto"))
	}

	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleCreateRandomCode(ctx, days, uses))
}

func (r *RealTelegramBotAdapter) handleListCodesCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleListCodes(ctx))
}

func (r *RealTelegramBotAdapter) handleListUsersCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleListUsers(ctx))
}

// handleRevokeCommand handles /eliminar USER_ID.
func (r *RealTelegramBotAdapter) handleRevokeCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	userID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return r.SendMessage(ctx, message.Chat.ID, r.tr.T("usage_eliminar"))
	}

	return r.SendMessage(ctx, message.Chat.ID, r.facade.HandleRevoke(ctx, userID))
}
