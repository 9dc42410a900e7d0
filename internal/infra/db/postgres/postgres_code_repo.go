package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/repository"
	"telegram-channel-access/internal/infra/metrics"
)

// Ensure implementation satisfies the interface.
var _ repository.CodeRepository = (*codeRepo)(nil)

type codeRepo struct {
	pool *pgxpool.Pool
}

func NewCodeRepo(pool *pgxpool.Pool) repository.CodeRepository {
	return &codeRepo{pool: pool}
}

// Create inserts a new access code. A duplicate code string surfaces as
// domain.ErrAlreadyExists; the existing record is never overwritten.
func (r *codeRepo) Create(ctx context.Context, tx repository.Tx, code *model.AccessCode) error {
	const q = `
INSERT INTO access_codes (code, duration_days, max_uses, current_uses, created_at)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.Code, code.DurationDays, code.MaxUses, code.CurrentUses, code.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		case isUniqueViolation(err):
			return domain.ErrAlreadyExists
		default:
			metrics.IncDBError("codes_create")
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *codeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.AccessCode, error) {
	const q = `
SELECT code, duration_days, max_uses, current_uses, created_at
  FROM access_codes
 WHERE code = $1;
`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}

	var ac model.AccessCode
	err = row.Scan(&ac.Code, &ac.DurationDays, &ac.MaxUses, &ac.CurrentUses, &ac.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		metrics.IncDBError("codes_find")
		return nil, domain.ErrReadDatabaseRow
	}
	return &ac, nil
}

func (r *codeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.AccessCode, error) {
	const q = `
SELECT code, duration_days, max_uses, current_uses, created_at
  FROM access_codes
 ORDER BY created_at ASC;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return nil, err
		default:
			metrics.IncDBError("codes_list")
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.AccessCode
	for rows.Next() {
		var ac model.AccessCode
		if err := rows.Scan(&ac.Code, &ac.DurationDays, &ac.MaxUses, &ac.CurrentUses, &ac.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &ac)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

// IncrementUse bumps current_uses, guarded by the max_uses bound so the
// check and the increment are a single serialized statement.
func (r *codeRepo) IncrementUse(ctx context.Context, tx repository.Tx, code string) error {
	const q = `
UPDATE access_codes
   SET current_uses = current_uses + 1
 WHERE code = $1 AND current_uses < max_uses;
`
	tag, err := execSQL(ctx, r.pool, tx, q, code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidExecContext):
			return err
		default:
			metrics.IncDBError("codes_increment")
			return domain.ErrOperationFailed
		}
	}
	if tag.RowsAffected() == 0 {
		// Either the code is missing or the bound was hit concurrently.
		_, ferr := r.FindByCode(ctx, tx, code)
		switch {
		case errors.Is(ferr, domain.ErrNotFound):
			return domain.ErrInvalidCode
		case ferr != nil:
			return ferr
		default:
			return domain.ErrCodeExhausted
		}
	}
	return nil
}
