package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
)

// InventoryHandler maneja los ítems de inventario y las alertas de stock bajo (protegido).
type InventoryHandler struct {
	uc       *inventory.ItemUseCase
	lowStock *inventory.LowStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.ItemUseCase, lowStock *inventory.LowStockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, lowStock: lowStock}
}

// List godoc
// @Summary      Listar ítems
// @Description  Más recientes primero, con el nombre de la categoría.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        page         query  int     false  "Página (default 1)"
// @Param        limit        query  int     false  "Tamaño de página (default 10, máx 100)"
// @Param        search       query  string  false  "Busca en nombre, descripción y SKU"
// @Param        category_id  query  int     false  "Filtrar por categoría"
// @Param        low_stock    query  string  false  "\"true\": solo ítems con quantity <= minimum_quantity"
// @Success      200  {object}  dto.Response{data=[]dto.InventoryItemResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var f dto.InventoryFilter
	if err := parseQuery(c, &f); err != nil {
		return respondError(c, err)
	}
	page, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return okPage(c, page)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del ítem"
// @Success      200  {object}  dto.Response{data=dto.InventoryItemResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Crear ítem
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.Response{data=dto.InventoryItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryItemRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, out)
}

// Update godoc
// @Summary      Actualizar ítem
// @Description  La cantidad no se edita aquí; cambia solo mediante transacciones.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                             true  "ID del ítem"
// @Param        body  body  dto.UpdateInventoryItemRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.InventoryItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateInventoryItemRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, out)
}

// Delete godoc
// @Summary      Eliminar ítem
// @Description  Se rechaza si tiene transacciones.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del ítem"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return okMessage(c, "ítem eliminado")
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Ítems con quantity <= minimum_quantity, ordenados por margen ascendente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]dto.LowStockItemResponse}
// @Router       /api/inventory/alerts/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.lowStock.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, list)
}

// LowStockPDF godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts/low-stock/pdf [get]
func (h *InventoryHandler) LowStockPDF(c *fiber.Ctx) error {
	pdf, err := h.lowStock.Report(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="stock-bajo.pdf"`)
	return c.Send(pdf)
}
