package telegram

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain/ports/adapter"
)

// Ensure compile-time conformance
var _ adapter.ChannelGateway = (*ChannelGateway)(nil)

// ChannelGateway performs membership operations against the gated channel.
type ChannelGateway struct {
	bot       *tgbotapi.BotAPI
	channelID int64
	log       *zerolog.Logger
}

func NewChannelGateway(bot *tgbotapi.BotAPI, channelID int64, logger *zerolog.Logger) *ChannelGateway {
	return &ChannelGateway{bot: bot, channelID: channelID, log: logger}
}

// NewChannelGatewayFromToken builds the gateway with its own bot client.
func NewChannelGatewayFromToken(token string, channelID int64, logger *zerolog.Logger) (*ChannelGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return NewChannelGateway(bot, channelID, logger), nil
}

// CreateInviteLink mints a single-use invite link (member_limit = 1).
func (g *ChannelGateway) CreateInviteLink(ctx context.Context) (string, error) {
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: g.channelID},
		MemberLimit: 1,
	}
	resp, err := g.bot.Request(cfg)
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	return link.InviteLink, nil
}

// Kick bans and immediately unbans the user. The unban re-permits future
// joins through a fresh invite, so this is a kick rather than a permanent ban.
func (g *ChannelGateway) Kick(ctx context.Context, userID int64) error {
	member := tgbotapi.ChatMemberConfig{ChatID: g.channelID, UserID: userID}

	if _, err := g.bot.Request(tgbotapi.BanChatMemberConfig{ChatMemberConfig: member}); err != nil {
		return fmt.Errorf("ban member %d: %w", userID, err)
	}
	if _, err := g.bot.Request(tgbotapi.UnbanChatMemberConfig{ChatMemberConfig: member}); err != nil {
		return fmt.Errorf("unban member %d: %w", userID, err)
	}
	return nil
}
