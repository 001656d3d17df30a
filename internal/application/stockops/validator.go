package stockops

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// Validator reglas de negocio del borrador de operación. Las reglas
// declarativas (campos requeridos, tipos) viven en los tags de los DTOs;
// aquí van las reglas cruzadas y las que consultan existencias vivas,
// que un esquema estático no puede expresar.
type Validator struct {
	store *refdata.Store
}

// NewValidator construye el validador sobre la caché de referencia.
func NewValidator(store *refdata.Store) *Validator {
	return &Validator{store: store}
}

// ValidateHeader verifica la cabecera: tipo de operación conocido, almacén
// origen existente, y destino obligatorio y distinto del origen para TRANSFERENCIA.
func (v *Validator) ValidateHeader(h entity.DraftHeader) error {
	if !entity.ValidOperationType(h.OperationType) {
		return fmt.Errorf("%w: tipo de operación desconocido %q", domain.ErrInvalidInput, h.OperationType)
	}
	if h.SourceWarehouseID <= 0 {
		return fmt.Errorf("%w: falta el almacén origen", domain.ErrInvalidInput)
	}
	if _, ok := v.store.Warehouse(h.SourceWarehouseID); !ok {
		return fmt.Errorf("%w: almacén origen %d", domain.ErrNotFound, h.SourceWarehouseID)
	}

	switch h.OperationType {
	case entity.OperationTypeTransferencia:
		if h.DestWarehouseID <= 0 {
			return fmt.Errorf("%w: la transferencia requiere un almacén destino", domain.ErrInvalidInput)
		}
		if h.DestWarehouseID == h.SourceWarehouseID {
			return fmt.Errorf("%w: el almacén destino debe ser distinto del origen", domain.ErrInvalidInput)
		}
		if _, ok := v.store.Warehouse(h.DestWarehouseID); !ok {
			return fmt.Errorf("%w: almacén destino %d", domain.ErrNotFound, h.DestWarehouseID)
		}
	default:
		if h.DestWarehouseID > 0 {
			return fmt.Errorf("%w: el almacén destino solo aplica a TRANSFERENCIA", domain.ErrInvalidInput)
		}
	}
	return nil
}

// ValidateItem verifica un candidato a ítem pendiente contra la cabecera y las
// existencias actuales. Para tipos de salida, la cantidad solicitada no puede
// superar la disponible en el par (lote, producto); el rechazo nombra producto,
// lote y cantidad disponible, y el ítem nunca llega al borrador.
func (v *Validator) ValidateItem(h entity.DraftHeader, item entity.StagedItem) error {
	if item.LotID <= 0 || item.ProductID <= 0 {
		return fmt.Errorf("%w: lote y producto son obligatorios", domain.ErrInvalidInput)
	}
	if !item.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad debe ser un número positivo", domain.ErrInvalidInput)
	}
	if !entity.Outbound(h.OperationType) {
		// ENTRADA: el stock siempre puede crecer, sin techo.
		return nil
	}

	available, _ := v.store.LotLine(item.LotID, item.ProductID)
	if item.Quantity.GreaterThan(available) {
		return fmt.Errorf(
			"%w: el producto %q en el lote %q solo tiene %s disponible (solicitado %s)",
			domain.ErrInsufficientStock,
			item.ProductDescription, item.LotDesignation,
			available.String(), item.Quantity.String(),
		)
	}
	return nil
}
