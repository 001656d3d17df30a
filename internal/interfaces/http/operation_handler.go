package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospisys/farmacia-stock/internal/application/dto"
	"github.com/hospisys/farmacia-stock/internal/application/stockops"
)

// OperationHandler maneja las operaciones de stock ya registradas.
type OperationHandler struct {
	ops    *stockops.OperationsUseCase
	drafts *stockops.DraftManager
}

// NewOperationHandler construye el handler.
func NewOperationHandler(ops *stockops.OperationsUseCase, drafts *stockops.DraftManager) *OperationHandler {
	return &OperationHandler{ops: ops, drafts: drafts}
}

// List godoc
// @Summary      Operaciones registradas
// @Tags         operations
// @Produce      json
// @Success      200  {array}  dto.OperationDTO
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.ops.List())
}

// Get godoc
// @Summary      Detalle de una operación
// @Tags         operations
// @Produce      json
// @Param        id  path  int  true  "ID de la operación"
// @Success      200  {object}  dto.OperationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [get]
func (h *OperationHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de operación inválido"})
	}
	op, err := h.ops.Get(int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(op)
}

// CreateEditDraft godoc
// @Summary      Abrir un borrador precargado para editar la operación
// @Description  El envío del borrador resultante hace PUT edit-with-linhas/{id}
//
//	en lugar de registrar una operación nueva.
//
// @Tags         operations
// @Produce      json
// @Param        id  path  int  true  "ID de la operación"
// @Success      201  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operations/{id}/edit-draft [post]
func (h *OperationHandler) CreateEditDraft(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de operación inválido"})
	}
	d, err := h.drafts.CreateFromOperation(int64(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDraft(d))
}

// Delete godoc
// @Summary      Eliminar una operación
// @Tags         operations
// @Produce      json
// @Param        id  path  int  true  "ID de la operación"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/operations/{id} [delete]
func (h *OperationHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de operación inválido"})
	}
	if err := h.ops.Delete(c.Context(), int64(id)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
