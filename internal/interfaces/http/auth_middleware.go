package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gesafe-api/pkg/jwt"
)

// LocalUserID clave en c.Locals del usuario autenticado.
const LocalUserID = "user_id"

// AuthMiddleware valida el Bearer Token JWT y deja el UserID en c.Locals.
// Token vencido: 401 TOKEN_EXPIRED, para que el cliente descarte la sesión.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "Token de acesso não informado")
		}
		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return errorJSON(c, fiber.StatusUnauthorized, CodeInvalidToken, "Formato: Bearer <token>")
		}
		userID, err := jwt.Parse(jwtSecret, token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpired) {
				return errorJSON(c, fiber.StatusUnauthorized, CodeTokenExpired, "Sessão expirada, faça login novamente")
			}
			return errorJSON(c, fiber.StatusUnauthorized, CodeInvalidToken, "Token inválido")
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
