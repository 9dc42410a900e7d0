package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Redemption errors
	ErrAlreadySubscribed  = errors.New("user already has an active subscription")
	ErrInvalidCode        = errors.New("access code not found")
	ErrCodeExhausted      = errors.New("access code has no uses left")
	ErrGatewayUnavailable = errors.New("channel gateway call failed")
	ErrLockNotAcquired    = errors.New("could not acquire redemption lock")
)
