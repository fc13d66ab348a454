package http

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/pkg/validator"
)

// Códigos de error del envelope.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION_ERROR"
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeIntegrity         = "INTEGRITY_ERROR"
	CodeInternal          = "INTERNAL"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: ErrUserNotFound antes que ErrNotFound.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation},
	{domain.ErrDuplicate, fiber.StatusConflict, CodeConflict},
	{domain.ErrUserNotFound, fiber.StatusNotFound, CodeUserNotFound},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrInvalidToken, fiber.StatusForbidden, CodeInvalidToken},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, CodeInsufficientStock},
	{domain.ErrIntegrity, fiber.StatusBadRequest, CodeIntegrity},
}

// respondError traduce un error de dominio, de validación o de Fiber al envelope
// {success:false, code, message}.
func respondError(c *fiber.Ctx, err error) error {
	var verrs validator.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: CodeValidation, Message: verrs.Error(), Errors: []validator.FieldError(verrs),
		})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: fiberErrorCode(fe.Code), Message: fe.Message})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).
		Str("request_id", GetRequestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: CodeInternal, Message: "error interno del servidor",
	})
}

func fiberErrorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeInvalidBody
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	return CodeInternal
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, panics recuperados, errores no tratados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(dto.Response{Success: true, Data: data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Response{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, msg string) error {
	return c.JSON(dto.Response{Success: true, Message: msg})
}

func okPage[T any](c *fiber.Ctx, page *dto.Page[T]) error {
	return c.JSON(dto.Response{Success: true, Data: page.Items, Pagination: &page.Pagination})
}

// parseBody decodifica el cuerpo JSON rechazando campos desconocidos y valida el resultado.
// Un campo no editable (p.ej. quantity en PUT /inventory/:id) responde 400 en lugar de ignorarse.
func parseBody(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo requerido")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido: "+err.Error())
	}
	return validator.Struct(out)
}

// parseQuery lee los filtros de la query string.
func parseQuery(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros de consulta: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// paramID lee un parámetro de ruta numérico positivo.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s inválido", domain.ErrInvalidInput, name)
	}
	return id, nil
}
