package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/technova/ventas-api/internal/application/catalog"
	"github.com/technova/ventas-api/internal/application/dto"
)

// ServiceHandler maneja las peticiones HTTP para Service (protegido).
type ServiceHandler struct {
	uc *catalog.ServiceUseCase
}

// NewServiceHandler construye el handler.
func NewServiceHandler(uc *catalog.ServiceUseCase) *ServiceHandler {
	return &ServiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateServiceRequest  true  "Datos del servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/services [post]
func (h *ServiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateService(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener servicio por ID
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del servicio"
// @Success      200  {object}  dto.ServiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [get]
func (h *ServiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetService(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar servicios
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.ServiceResponse
// @Router       /api/services [get]
func (h *ServiceHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListServices(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar servicio
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del servicio"
// @Param        body  body  dto.CreateServiceRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/services/{id} [put]
func (h *ServiceHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateService(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar servicio
// @Tags         services
// @Security     Bearer
// @Param        id  path  string  true  "ID del servicio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/services/{id} [delete]
func (h *ServiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteService(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
