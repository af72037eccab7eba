package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
)

// classify wraps a pgx error with op and, where the failure has a meaning
// callers act on, with the matching apperr sentinel. The original error
// stays in the chain for logging. Context errors pass through unmapped.
//
// This is the only place SQLSTATE codes are looked at.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w: %w", op, apperr.ErrDuplicate, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w: %w", op, apperr.ErrForeignKey, err)
		case "23514", "23502": // check_violation, not_null_violation
			return fmt.Errorf("%s: %w: %w", op, apperr.ErrValidation, err)
		case "22P02": // invalid_text_representation
			return fmt.Errorf("%s: %w: %w", op, apperr.ErrParse, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
