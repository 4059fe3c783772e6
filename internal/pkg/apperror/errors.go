package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	ErrCodeUnimplemented       ErrorCode = "UNIMPLEMENTED_ACTION"
	ErrCodeUpstream            ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeRateLimited         ErrorCode = "RATE_LIMITED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку валидации с форматированным сообщением.
func Validation(format string, args ...any) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// InvalidTransition создаёт ошибку нарушения жизненного цикла.
func InvalidTransition(format string, args ...any) *AppError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf(format, args...))
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeConstraintViolation:
		return http.StatusUnprocessableEntity
	case ErrCodeUnimplemented:
		return http.StatusNotImplemented
	case ErrCodeUpstream:
		return http.StatusBadGateway
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или INTERNAL_ERROR для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsInvalidTransition(err error) bool {
	return CodeOf(err) == ErrCodeInvalidTransition
}

// IsDomain сообщает, что ошибка описывает бизнес-отказ, а не сбой инфраструктуры.
func IsDomain(err error) bool {
	switch CodeOf(err) {
	case ErrCodeNotFound, ErrCodeBadRequest, ErrCodeValidation, ErrCodeInvalidTransition,
		ErrCodeConflict, ErrCodeConstraintViolation:
		return true
	}
	return false
}

var (
	ErrClaimNotFound      = New(ErrCodeNotFound, "sinistro não encontrado")
	ErrThirdPartyNotFound = New(ErrCodeNotFound, "link de terceiro inválido ou expirado")
	ErrShopNotFound       = New(ErrCodeNotFound, "oficina não encontrada")
	ErrSinistroNotFound   = New(ErrCodeNotFound, "registro de sinistro não encontrado")
	ErrStatusConflict     = New(ErrCodeConflict, "status do sinistro foi alterado por outra operação")
	ErrConstraint         = New(ErrCodeConstraintViolation, "referência inválida")
)
