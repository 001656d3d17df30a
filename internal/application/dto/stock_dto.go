package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// DraftHeaderRequest cabecera para crear o actualizar un borrador de operación.
// dest_warehouse_id solo aplica (y es obligatorio) para TRANSFERENCIA; la regla
// cruzada la verifica el validador de negocio, no el esquema.
type DraftHeaderRequest struct {
	OperationType     string `json:"operation_type" validate:"required,oneof=ENTRADA SAIDA TRANSFERENCIA ANULACAO"`
	SourceWarehouseID int64  `json:"source_warehouse_id" validate:"required,gt=0"`
	DestWarehouseID   int64  `json:"dest_warehouse_id" validate:"omitempty,gt=0"`
	Description       string `json:"description" validate:"max=500"`
	UserID            int64  `json:"user_id" validate:"required,gt=0"`
}

// ToHeader convierte el request a la cabecera de dominio.
func (r DraftHeaderRequest) ToHeader() entity.DraftHeader {
	return entity.DraftHeader{
		OperationType:     r.OperationType,
		SourceWarehouseID: r.SourceWarehouseID,
		DestWarehouseID:   r.DestWarehouseID,
		Description:       r.Description,
		UserID:            r.UserID,
	}
}

// StagedItemRequest body para agregar o reemplazar un ítem pendiente.
// Con edit_item_id presente se reemplaza ese ítem en su posición;
// sin él se agrega uno nuevo. La cantidad se valida en el validador
// de negocio (decimal no es comparable con tags del esquema).
type StagedItemRequest struct {
	EditItemID string          `json:"edit_item_id,omitempty"`
	ProductID  int64           `json:"product_id" validate:"required,gt=0"`
	LotID      int64           `json:"lot_id" validate:"required,gt=0"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// SetQuantityRequest body para cambiar la cantidad de un ítem pendiente.
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// StagedItemDTO ítem pendiente en respuestas.
type StagedItemDTO struct {
	ID                 string          `json:"id"`
	ProductID          int64           `json:"product_id"`
	ProductDescription string          `json:"product_description"`
	LotID              int64           `json:"lot_id"`
	LotDesignation     string          `json:"lot_designation"`
	Quantity           decimal.Decimal `json:"quantity"`
}

// DraftResponse estado completo de un borrador.
type DraftResponse struct {
	ID                 string          `json:"id"`
	State              string          `json:"state"`
	OperationType      string          `json:"operation_type"`
	SourceWarehouseID  int64           `json:"source_warehouse_id"`
	DestWarehouseID    int64           `json:"dest_warehouse_id,omitempty"`
	Description        string          `json:"description,omitempty"`
	UserID             int64           `json:"user_id"`
	EditingOperationID int64           `json:"editing_operation_id,omitempty"`
	Items              []StagedItemDTO `json:"items"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OperationLineDTO línea de operación con cantidades antes/después.
type OperationLineDTO struct {
	SourceWarehouseID int64           `json:"source_warehouse_id"`
	SourceLotID       int64           `json:"source_lot_id"`
	ProductID         int64           `json:"product_id"`
	QuantityBefore    decimal.Decimal `json:"quantity_before"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityAfter     decimal.Decimal `json:"quantity_after"`
	DestWarehouseID   *int64          `json:"dest_warehouse_id,omitempty"`
	DestLotID         *int64          `json:"dest_lot_id,omitempty"`
}

// OperationDTO operación registrada en el HIS.
type OperationDTO struct {
	ID          int64              `json:"id"`
	Date        time.Time          `json:"date"`
	Type        string             `json:"type"`
	UserID      int64              `json:"user_id"`
	WarehouseID int64              `json:"warehouse_id"`
	Description string             `json:"description,omitempty"`
	Lines       []OperationLineDTO `json:"lines"`
}

// FromDraft mapea el borrador a DTO.
func FromDraft(d *entity.OperationDraft) DraftResponse {
	items := make([]StagedItemDTO, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, StagedItemDTO{
			ID:                 it.ID,
			ProductID:          it.ProductID,
			ProductDescription: it.ProductDescription,
			LotID:              it.LotID,
			LotDesignation:     it.LotDesignation,
			Quantity:           it.Quantity,
		})
	}
	return DraftResponse{
		ID:                 d.ID,
		State:              d.State,
		OperationType:      d.Header.OperationType,
		SourceWarehouseID:  d.Header.SourceWarehouseID,
		DestWarehouseID:    d.Header.DestWarehouseID,
		Description:        d.Header.Description,
		UserID:             d.Header.UserID,
		EditingOperationID: d.EditingOperationID,
		Items:              items,
		UpdatedAt:          d.UpdatedAt,
	}
}

// FromOperation mapea la operación a DTO.
func FromOperation(op entity.Operation) OperationDTO {
	lines := make([]OperationLineDTO, 0, len(op.Lines))
	for _, l := range op.Lines {
		lines = append(lines, OperationLineDTO{
			SourceWarehouseID: l.SourceWarehouseID,
			SourceLotID:       l.SourceLotID,
			ProductID:         l.ProductID,
			QuantityBefore:    l.QuantityBefore,
			QuantityRequested: l.QuantityRequested,
			QuantityAfter:     l.QuantityAfter,
			DestWarehouseID:   l.DestWarehouseID,
			DestLotID:         l.DestLotID,
		})
	}
	return OperationDTO{
		ID:          op.ID,
		Date:        op.Date,
		Type:        op.Type,
		UserID:      op.UserID,
		WarehouseID: op.WarehouseID,
		Description: op.Description,
		Lines:       lines,
	}
}
