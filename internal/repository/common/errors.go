package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех реализаций хранилища
var (
	ErrNotFound            = errors.New("entity not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStatusConflict      = errors.New("status changed concurrently")
)

// TranslatePQError приводит ошибки ссылочной целостности PostgreSQL к ErrConstraintViolation.
func TranslatePQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503", "23514":
			return errors.Join(ErrConstraintViolation, err)
		}
	}
	return err
}
