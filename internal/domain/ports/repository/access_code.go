package repository

import (
	"context"

	"telegram-channel-access/internal/domain/model"
)

// CodeRepository is the port for managing access codes.
type CodeRepository interface {
	// Create inserts a new code. Returns domain.ErrAlreadyExists if a code
	// with the same normalized string is already stored.
	Create(ctx context.Context, tx Tx, code *model.AccessCode) error
	// FindByCode looks up a code by its normalized string.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.AccessCode, error)
	// ListAll returns every code, for reporting.
	ListAll(ctx context.Context, tx Tx) ([]*model.AccessCode, error)
	// IncrementUse bumps current_uses by one, guarded by the max_uses bound.
	// Returns domain.ErrCodeExhausted if the bound was already reached and
	// domain.ErrInvalidCode if the code does not exist.
	IncrementUse(ctx context.Context, tx Tx, code string) error
}
