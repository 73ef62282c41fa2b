package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStore marks any store failure that is not a missing row or a unique
// violation. Raw driver errors never cross the db boundary.
var ErrStore = errors.New("store error")

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// wrap classifies a driver error: no-rows and unique violations pass
// through for callers to inspect, everything else becomes ErrStore.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsUniqueViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}
