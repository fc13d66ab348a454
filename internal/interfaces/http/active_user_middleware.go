package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
)

// activeUserChecker es el contrato mínimo que necesita el middleware para verificar la cuenta.
// Lo implementa *usecase.UserUseCase; el uso de interfaz evita el import circular.
type activeUserChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// RequireActiveUser verifica contra el store que la cuenta del token siga activa.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 Unauthorized → no hay identidad en el contexto.
//   - 403 Forbidden    → cuenta inactiva o eliminada.
//   - 503 Service Unavailable → fallo al consultar el store.
func RequireActiveUser(checker activeUserChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    CodeUnauthorized,
				Message: "usuario no encontrado en el token",
			})
		}

		active, err := checker.IsActive(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("verificación de cuenta activa falló")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar la cuenta, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "ACCOUNT_INACTIVE",
				Message: "la cuenta está inactiva o ya no existe",
			})
		}

		return c.Next()
	}
}
