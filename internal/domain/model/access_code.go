package model

import (
	"strings"
	"time"

	"telegram-channel-access/internal/domain"
)

// AccessCode is a redeemable token bounded by a use count. Redeeming it
// grants a fixed-duration subscription to the gated channel.
type AccessCode struct {
	Code         string
	DurationDays int
	MaxUses      int
	CurrentUses  int
	CreatedAt    time.Time
}

// NormalizeCode maps user input to the canonical stored form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewAccessCode validates and builds a code record. The code string is
// normalized to uppercase; CurrentUses always starts at zero.
func NewAccessCode(code string, durationDays, maxUses int) (*AccessCode, error) {
	code = NormalizeCode(code)
	if code == "" || durationDays <= 0 || maxUses <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &AccessCode{
		Code:         code,
		DurationDays: durationDays,
		MaxUses:      maxUses,
		CurrentUses:  0,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Exhausted reports whether the code has no redemptions left.
func (c *AccessCode) Exhausted() bool {
	return c.CurrentUses >= c.MaxUses
}
