package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
)

// TransactionHandler maneja entradas y salidas de inventario.
type TransactionHandler struct {
	uc    *inventory.TransactionUseCase
	stats *analytics.DashboardUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *inventory.TransactionUseCase, stats *analytics.DashboardUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc, stats: stats}
}

// List godoc
// @Summary      Listar transacciones
// @Description  Más recientes primero. end_date incluye el día completo.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        page          query  int     false  "Página (default 1)"
// @Param        limit         query  int     false  "Tamaño de página (default 10, máx 100)"
// @Param        type          query  string  false  "in | out"
// @Param        inventory_id  query  int     false  "Filtrar por ítem"
// @Param        start_date    query  string  false  "YYYY-MM-DD o RFC 3339"
// @Param        end_date      query  string  false  "YYYY-MM-DD o RFC 3339"
// @Param        search        query  string  false  "Busca en nombre y SKU del ítem"
// @Success      200  {object}  dto.Response{data=[]dto.TransactionResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var f dto.TransactionFilter
	if err := parseQuery(c, &f); err != nil {
		return respondError(c, err)
	}
	page, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return okPage(c, page)
}

// Stats godoc
// @Summary      Estadísticas de transacciones
// @Description  Unidades de entrada y salida de hoy, y número de transacciones de la semana (desde el lunes) y del mes.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.TransactionStatsResponse}
// @Router       /api/transactions/stats [get]
func (h *TransactionHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stats.TransactionStats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// History godoc
// @Summary      Historial de un ítem
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        inventoryId  path   int  true   "ID del ítem"
// @Param        page         query  int  false  "Página (default 1)"
// @Param        limit        query  int  false  "Tamaño de página (default 10, máx 100)"
// @Success      200  {object}  dto.Response{data=[]dto.TransactionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/inventory/{inventoryId} [get]
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	itemID, err := paramID(c, "inventoryId")
	if err != nil {
		return respondError(c, err)
	}
	var p dto.PageRequest
	if err := parseQuery(c, &p); err != nil {
		return respondError(c, err)
	}
	page, err := h.uc.History(c.UserContext(), itemID, p)
	if err != nil {
		return respondError(c, err)
	}
	return okPage(c, page)
}

// GetByID godoc
// @Summary      Obtener transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la transacción"
// @Success      200  {object}  dto.Response{data=dto.TransactionResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Registrar transacción
// @Description  Ajusta la cantidad del ítem y guarda el registro en la misma escritura.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "inventory_id, type (in|out), quantity, notes"
// @Success      201   {object}  dto.Response{data=dto.TransactionResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RecordTransaction(out.Type, out.Quantity)
	return created(c, out)
}

// Update godoc
// @Summary      Actualizar notas de una transacción
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID de la transacción"
// @Param        body  body  dto.UpdateTransactionRequest  true  "notes"
// @Success      200   {object}  dto.Response{data=dto.TransactionResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateTransactionRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateNotes(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Eliminar transacción
// @Description  Revierte su efecto sobre la cantidad del ítem. Se rechaza si la cantidad quedaría negativa.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la transacción"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "transacción eliminada")
}
