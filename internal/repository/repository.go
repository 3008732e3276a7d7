package repository

import (
	"errors"
	"fmt"

	"app/internal/apperr"
)

// wrapStore tags a database failure with apperr.ErrStore while keeping the
// driver error in the chain for logging.
func wrapStore(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(apperr.ErrStore, err))
}
