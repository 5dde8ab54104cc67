package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GateMiddleware guards routes behind the access gate. When no access
// code is configured the gate is disabled and every request passes.
func GateMiddleware(enabled bool, tokenSecret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !enabled {
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		tokenStr := authHeader[7:]

		claims, err := ParseGateToken(tokenSecret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals("gate_subject", claims["sub"])
		return ctx.Next()
	}
}

// ParseGateToken validates an HS256 gate token and returns its claims.
// Shared by the HTTP middleware and the websocket handshake.
func ParseGateToken(tokenSecret, tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(tokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid gate token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid gate claims")
	}
	return claims, nil
}
