package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un borrador de operación.
// Vacío (sin ítems) → armado → enviando → confirmado (vuelve a vacío) o fallo (vuelve a armado).
const (
	DraftStateBuilding   = "BUILDING"
	DraftStateSubmitting = "SUBMITTING"
)

// StagedItem ítem pendiente dentro de un borrador. El ID es temporal
// (generado en este servicio, único solo durante la vida del borrador)
// y nunca se usa como identificador del HIS.
type StagedItem struct {
	ID                 string
	ProductID          int64
	ProductDescription string
	LotID              int64
	LotDesignation     string
	Quantity           decimal.Decimal
}

// DraftHeader cabecera del borrador. DestWarehouseID solo es obligatorio
// (y permitido) para TRANSFERENCIA.
type DraftHeader struct {
	OperationType     string
	SourceWarehouseID int64
	DestWarehouseID   int64
	Description       string
	UserID            int64
}

// OperationDraft borrador de operación en memoria. Se envía como una unidad;
// se vacía tras el envío exitoso o la cancelación. No sobrevive al proceso.
type OperationDraft struct {
	ID                 string
	Header             DraftHeader
	Items              []StagedItem
	EditingOperationID int64 // >0 cuando se edita una operación ya registrada (PUT en vez de POST)
	State              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Item devuelve el ítem con el id dado y su posición, o nil si no existe.
func (d *OperationDraft) Item(itemID string) (*StagedItem, int) {
	for i := range d.Items {
		if d.Items[i].ID == itemID {
			return &d.Items[i], i
		}
	}
	return nil, -1
}
