// File: internal/usecase/code_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/repository"
	"telegram-channel-access/internal/infra/metrics"
)

// maxGenerateRetries bounds the retry loop for random code collisions.
// With 36^8 possible codes a single retry is already rare.
const maxGenerateRetries = 5

// CodeUseCase implements the access-code registry operations.
type CodeUseCase struct {
	codeRepo repository.CodeRepository
	log      *zerolog.Logger
}

func NewCodeUseCase(codeRepo repository.CodeRepository, logger *zerolog.Logger) *CodeUseCase {
	return &CodeUseCase{codeRepo: codeRepo, log: logger}
}

// Create stores an explicit admin-chosen code. A duplicate code string
// returns domain.ErrAlreadyExists and leaves the existing record untouched.
func (uc *CodeUseCase) Create(ctx context.Context, code string, durationDays, maxUses int) (*model.AccessCode, error) {
	ac, err := model.NewAccessCode(code, durationDays, maxUses)
	if err != nil {
		return nil, err
	}
	if err := uc.codeRepo.Create(ctx, repository.NoTX, ac); err != nil {
		return nil, err
	}
	metrics.IncCodeCreated("explicit")
	uc.log.Info().Str("code", ac.Code).Int("days", durationDays).Int("max_uses", maxUses).Msg("access code created")
	return ac, nil
}

// CreateRandom generates a fresh code and stores it, retrying on the
// (unlikely) collision with an existing code.
func (uc *CodeUseCase) CreateRandom(ctx context.Context, durationDays, maxUses int) (*model.AccessCode, error) {
	for i := 0; i < maxGenerateRetries; i++ {
		code, err := generateCode()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		ac, err := model.NewAccessCode(code, durationDays, maxUses)
		if err != nil {
			return nil, err
		}
		err = uc.codeRepo.Create(ctx, repository.NoTX, ac)
		if errors.Is(err, domain.ErrAlreadyExists) {
			uc.log.Warn().Str("code", code).Msg("generated code collided, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		metrics.IncCodeCreated("generated")
		uc.log.Info().Str("code", ac.Code).Int("days", durationDays).Int("max_uses", maxUses).Msg("access code generated")
		return ac, nil
	}
	return nil, domain.ErrAlreadyExists
}

// List returns all codes for reporting.
func (uc *CodeUseCase) List(ctx context.Context) ([]*model.AccessCode, error) {
	return uc.codeRepo.ListAll(ctx, repository.NoTX)
}
