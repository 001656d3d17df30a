package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospisys/farmacia-stock/internal/application/dto"
	"github.com/hospisys/farmacia-stock/internal/application/stockops"
)

// DraftHandler maneja las peticiones HTTP del área de preparación de operaciones.
type DraftHandler struct {
	drafts *stockops.DraftManager
	submit *stockops.SubmitUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(drafts *stockops.DraftManager, submit *stockops.SubmitUseCase) *DraftHandler {
	return &DraftHandler{drafts: drafts, submit: submit}
}

// Create godoc
// @Summary      Abrir un borrador de operación de stock
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DraftHeaderRequest  true  "operation_type, source_warehouse_id, dest_warehouse_id (TRANSFERENCIA), description, user_id"
// @Success      201   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drafts [post]
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	var in dto.DraftHeaderRequest
	if !parseBody(c, &in) {
		return nil
	}
	d, err := h.drafts.Create(in.ToHeader())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDraft(d))
}

// Get godoc
// @Summary      Estado actual de un borrador
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	d, err := h.drafts.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDraft(d))
}

// UpdateHeader godoc
// @Summary      Reemplazar la cabecera del borrador
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del borrador"
// @Param        body  body  dto.DraftHeaderRequest  true  "cabecera nueva"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/header [put]
func (h *DraftHandler) UpdateHeader(c *fiber.Ctx) error {
	var in dto.DraftHeaderRequest
	if !parseBody(c, &in) {
		return nil
	}
	d, err := h.drafts.UpdateHeader(c.Params("id"), in.ToHeader())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDraft(d))
}

// AddOrUpdateItem godoc
// @Summary      Agregar un ítem pendiente (o reemplazarlo con edit_item_id)
// @Description  El candidato se valida contra las existencias del par (lote, producto);
//
//	si la cantidad supera la disponible el ítem se rechaza y no queda en el borrador.
//
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del borrador"
// @Param        body  body  dto.StagedItemRequest  true  "product_id, lot_id, quantity, edit_item_id (opcional)"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/items [post]
func (h *DraftHandler) AddOrUpdateItem(c *fiber.Ctx) error {
	var in dto.StagedItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	d, err := h.drafts.AddOrUpdateItem(c.Params("id"), stockops.ItemInput{
		EditItemID: in.EditItemID,
		ProductID:  in.ProductID,
		LotID:      in.LotID,
		Quantity:   in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDraft(d))
}

// SetQuantity godoc
// @Summary      Cambiar la cantidad de un ítem pendiente
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id      path  string                  true  "ID del borrador"
// @Param        itemId  path  string                  true  "ID del ítem"
// @Param        body    body  dto.SetQuantityRequest  true  "quantity"
// @Success      200  {object}  dto.DraftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/items/{itemId}/quantity [put]
func (h *DraftHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if !parseBody(c, &in) {
		return nil
	}
	d, err := h.drafts.SetQuantity(c.Params("id"), c.Params("itemId"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDraft(d))
}

// RemoveItem godoc
// @Summary      Quitar un ítem pendiente
// @Tags         drafts
// @Produce      json
// @Param        id      path  string  true  "ID del borrador"
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/items/{itemId} [delete]
func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	d, err := h.drafts.RemoveItem(c.Params("id"), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDraft(d))
}

// Clear godoc
// @Summary      Vaciar los ítems del borrador
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/items [delete]
func (h *DraftHandler) Clear(c *fiber.Ctx) error {
	d, err := h.drafts.Clear(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDraft(d))
}

// Submit godoc
// @Summary      Enviar el borrador como una operación atómica
// @Description  Calcula cantidad anterior/posterior de cada línea contra existencias
//
//	frescas y registra la operación completa en el HIS en una sola petición.
//	Si alguna línea quedara negativa no se emite ninguna petición de escritura.
//
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "ID del borrador"
// @Success      201  {object}  dto.OperationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	op, err := h.submit.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromOperation(*op))
}

// Cancel godoc
// @Summary      Descartar el borrador
// @Tags         drafts
// @Produce      json
// @Param        id  path  string  true  "ID del borrador"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [delete]
func (h *DraftHandler) Cancel(c *fiber.Ctx) error {
	if err := h.drafts.Cancel(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
