package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/application/stock"
)

// StockHandler maneja ajustes manuales de stock y consulta del diario de
// movimientos (protegido; los ajustes son solo admin).
type StockHandler struct {
	uc *stock.MovementUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.MovementUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajuste manual de existencias (solo admin)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Adjust(c.Context(), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MovementsByProduct godoc
// @Summary      Diario de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/movements/product/{productId} [get]
func (h *StockHandler) MovementsByProduct(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListByProduct(c.Context(), c.Params("productId"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MovementsBySale godoc
// @Summary      Movimientos de stock generados por una venta
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        saleId  path  string  true  "ID de la venta"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/movements/sale/{saleId} [get]
func (h *StockHandler) MovementsBySale(c *fiber.Ctx) error {
	out, err := h.uc.ListBySale(c.Context(), c.Params("saleId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
