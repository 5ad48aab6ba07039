package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/technova/ventas-api/internal/application/dto"
	"github.com/technova/ventas-api/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP para Sale: creación y eliminación
// atómicas, líneas, estado y exportación (protegido).
type SaleHandler struct {
	createUC *sales.CreateSaleUseCase
	deleteUC *sales.DeleteSaleUseCase
	lineUC   *sales.SaleLineUseCase
	queryUC  *sales.SaleQueryUseCase
	exportUC *sales.SaleExportUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(
	createUC *sales.CreateSaleUseCase,
	deleteUC *sales.DeleteSaleUseCase,
	lineUC *sales.SaleLineUseCase,
	queryUC *sales.SaleQueryUseCase,
	exportUC *sales.SaleExportUseCase,
) *SaleHandler {
	return &SaleHandler{
		createUC: createUC,
		deleteUC: deleteUC,
		lineUC:   lineUC,
		queryUC:  queryUC,
		exportUC: exportUC,
	}
}

// Create godoc
// @Summary      Crear venta con líneas (todo o nada)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta con líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.CreateSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queryUC.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas (cabeceras)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.queryUC.ListSales(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta reponiendo el stock de sus líneas
// @Tags         sales
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.deleteUC.DeleteSale(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateEstado godoc
// @Summary      Cambiar estado abierta/anulada (no repone stock)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateEstadoRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/estado [put]
func (h *SaleHandler) UpdateEstado(c *fiber.Ctx) error {
	var in dto.UpdateEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.queryUC.UpdateEstado(c.Context(), c.Params("id"), in.Estado)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddProductLine godoc
// @Summary      Agregar línea de producto (debita stock)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.AddProductLineRequest  true  "Línea de producto"
// @Success      201   {object}  dto.SaleLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Stock insuficiente o venta anulada"
// @Router       /api/sales/{id}/lines/products [post]
func (h *SaleHandler) AddProductLine(c *fiber.Ctx) error {
	var in dto.AddProductLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.lineUC.AddProductLine(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddServiceLine godoc
// @Summary      Agregar línea de servicio (no toca stock)
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.AddServiceLineRequest  true  "Línea de servicio"
// @Success      201   {object}  dto.ServiceLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/lines/services [post]
func (h *SaleHandler) AddServiceLine(c *fiber.Ctx) error {
	var in dto.AddServiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.lineUC.AddServiceLine(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveLine godoc
// @Summary      Eliminar línea (repone stock si es de producto)
// @Tags         sales
// @Security     Bearer
// @Param        id      path  string  true  "ID de la venta"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/lines/{lineId} [delete]
func (h *SaleHandler) RemoveLine(c *fiber.Ctx) error {
	if err := h.lineUC.RemoveLine(c.Context(), GetUserID(c), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReceiptPDF godoc
// @Summary      Descargar recibo PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	out, err := h.exportUC.ReceiptPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="venta-`+c.Params("id")+`.pdf"`)
	return c.Send(out)
}

// ExportXML godoc
// @Summary      Exportar venta a XML
// @Tags         sales
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/xml [get]
func (h *SaleHandler) ExportXML(c *fiber.Ctx) error {
	out, err := h.exportUC.ExportXML(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	return c.Send(out)
}
