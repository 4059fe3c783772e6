package service

import (
	"errors"

	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
)

// mapStoreError переводит ошибки хранилища в ошибки приложения.
func mapStoreError(err error, notFound *apperror.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		if notFound != nil {
			return notFound
		}
		return apperror.Wrap(err, apperror.ErrCodeNotFound, "registro não encontrado")
	case errors.Is(err, repository.ErrStatusConflict):
		return apperror.ErrStatusConflict
	case errors.Is(err, repository.ErrConstraintViolation):
		return apperror.Wrap(err, apperror.ErrCodeConstraintViolation, "referência inválida")
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "erro interno")
	}
}
