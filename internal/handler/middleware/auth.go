package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/facultydesk/consultation-core/internal/consult"
	"github.com/facultydesk/consultation-core/internal/handler/response"
)

const (
	localActorID   = "actor_id"
	localActorRole = "actor_role"
)

// ActorClaims — полезная нагрузка токена: идентификатор в sub, роль отдельно.
// Выпуск и отзыв токенов — забота внешнего сервиса аутентификации.
type ActorClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// AuthMiddleware извлекает контекст инициатора из Bearer-токена.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Required пропускает только запросы с корректным токеном
// и кладёт идентификатор и роль инициатора в контекст запроса.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			return response.Unauthorized(c, "Invalid token")
		}

		actorID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return response.Unauthorized(c, "Invalid token subject")
		}

		c.Locals(localActorID, actorID)
		c.Locals(localActorRole, consult.UserRole(claims.Role))
		return c.Next()
	}
}

// ActorID возвращает идентификатор инициатора из контекста запроса.
func ActorID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(localActorID).(uuid.UUID)
	return id, ok
}

// ActorRole возвращает роль инициатора из контекста запроса.
func ActorRole(c *fiber.Ctx) (consult.UserRole, bool) {
	role, ok := c.Locals(localActorRole).(consult.UserRole)
	return role, ok
}
