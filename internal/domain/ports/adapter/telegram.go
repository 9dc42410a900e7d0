package adapter

import "context"

// TelegramBotAdapter sends outbound messages to users.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}

// ChannelGateway exposes the membership operations of the gated channel.
type ChannelGateway interface {
	// CreateInviteLink mints a single-use invite link for the channel.
	CreateInviteLink(ctx context.Context) (string, error)
	// Kick removes the user from the channel. Implemented as ban followed
	// by unban so the user may rejoin later via a fresh invite.
	Kick(ctx context.Context, userID int64) error
}
