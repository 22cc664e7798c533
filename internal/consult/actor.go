package consult

import (
	"context"

	"github.com/google/uuid"
)

// Роль пользователя в системе.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// Статус учётной записи.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// Actor — проверенный инициатор операции.
type Actor struct {
	ID     uuid.UUID
	Role   UserRole
	Status UserStatus
}

// ActorStore описывает источник данных об учётных записях.
// В проде это обёртка над БД, в тестах — мок.
type ActorStore interface {
	FindActor(ctx context.Context, id uuid.UUID) (*Actor, error)
}

// ValidateActor:
//   - вытаскивает учётную запись из хранилища;
//   - проверяет, что она активна;
//   - проверяет роль, если wantRole задана.
//
// Возвращает нормализованный результат или доменную ошибку.
func ValidateActor(
	ctx context.Context,
	store ActorStore,
	id uuid.UUID,
	wantRole UserRole,
) (*Actor, error) {
	if id == uuid.Nil {
		return nil, ErrNotAllowed
	}

	a, err := store.FindActor(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}

	if a.Status != UserStatusActive {
		return nil, ErrNotAllowed
	}
	if wantRole != "" && a.Role != wantRole {
		return nil, ErrNotAllowed
	}

	return a, nil
}
