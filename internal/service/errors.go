package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/facultydesk/consultation-core/internal/consult"
)

// notFound переводит gorm.ErrRecordNotFound в доменную ошибку.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, consult.ErrNotFound)
	}
	return err
}

// isDomainErr сообщает, является ли ошибка доменной (восстановимой вызывающим).
func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		consult.ErrValidation,
		consult.ErrNotFound,
		consult.ErrNotAllowed,
		consult.ErrCapacityExceeded,
		consult.ErrInvalidTransition,
		consult.ErrInvalidState,
		consult.ErrConflict,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// unavailable оборачивает ошибку хранилища после исчерпания повтора.
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", consult.ErrUnavailable, err)
}

// retryOnce выполняет операцию записи и повторяет её один раз при
// транзиентной ошибке хранилища. Доменные ошибки не повторяются;
// после второй неудачи ошибка оборачивается в ErrUnavailable.
func retryOnce(log *zap.Logger, op string, fn func() error) error {
	err := fn()
	if err == nil || isDomainErr(err) {
		return err
	}

	log.Warn("store operation failed, retrying once",
		zap.String("op", op),
		zap.Error(err),
	)

	err = fn()
	if err != nil && !isDomainErr(err) {
		return unavailable(err)
	}
	return err
}
