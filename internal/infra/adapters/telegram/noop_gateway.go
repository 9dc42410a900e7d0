package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain/ports/adapter"
)

var _ adapter.ChannelGateway = (*NoopChannelGateway)(nil)

// NoopChannelGateway logs instead of calling Telegram. Used in dev mode so
// the redemption flow can run without a real channel.
type NoopChannelGateway struct {
	log *zerolog.Logger
}

func NewNoopChannelGateway(logger *zerolog.Logger) *NoopChannelGateway {
	return &NoopChannelGateway{log: logger}
}

func (g *NoopChannelGateway) CreateInviteLink(ctx context.Context) (string, error) {
	g.log.Info().Msg("noop gateway: invite link requested")
	return "https://t.me/+noop-invite", nil
}

func (g *NoopChannelGateway) Kick(ctx context.Context, userID int64) error {
	g.log.Info().Int64("user_id", userID).Msg("noop gateway: kick requested")
	return nil
}
