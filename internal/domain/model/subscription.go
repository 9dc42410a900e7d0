package model

import (
	"time"

	"telegram-channel-access/internal/domain"
)

// Subscription records a user's granted access to the gated channel.
// At most one subscription exists per user; expiry is a stored fact and is
// never enforced by a background process.
type Subscription struct {
	UserID    int64
	ExpireAt  time.Time
	CodeUsed  string
	CreatedAt time.Time
}

// NewSubscription builds a subscription expiring durationDays after now.
// All timestamps are UTC.
func NewSubscription(userID int64, code *AccessCode, now time.Time) (*Subscription, error) {
	if userID == 0 || code == nil {
		return nil, domain.ErrInvalidArgument
	}
	now = now.UTC()
	return &Subscription{
		UserID:    userID,
		ExpireAt:  now.Add(time.Duration(code.DurationDays) * 24 * time.Hour),
		CodeUsed:  code.Code,
		CreatedAt: now,
	}, nil
}

// Expired reports whether the stored expiry has passed. Used for display
// only; an expired subscription still blocks further redemptions.
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.ExpireAt)
}
