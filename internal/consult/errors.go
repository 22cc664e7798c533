package consult

import "errors"

// Ошибки доменного уровня. Слой HTTP переводит их в коды ответов,
// сервисы оборачивают через %w с контекстом операции.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrNotAllowed        = errors.New("actor is not allowed")
	ErrCapacityExceeded  = errors.New("slot capacity exceeded")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("operation not permitted in current state")
	ErrConflict          = errors.New("concurrent modification conflict")
	ErrUnavailable       = errors.New("store temporarily unavailable")
)
