package domain

import "errors"

// Errores de dominio (sin dependencias externas). La capa HTTP los traduce a status.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidToken      = errors.New("token inválido o expirado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrIntegrity borrado o cambio bloqueado por referencias o por la regla del último admin.
	ErrIntegrity = errors.New("operación bloqueada por integridad")
)
