package stock

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// AvailabilityFunc devuelve la existencia actual del par (lote, producto).
// ok = false cuando no existe línea de lote para el par (equivale a cero).
type AvailabilityFunc func(lotID, productID int64) (decimal.Decimal, bool)

// QuantityAfter aplica la aritmética del tipo de operación:
// ENTRADA suma; SAIDA, TRANSFERENCIA y ANULACAO restan.
func QuantityAfter(opType string, before, requested decimal.Decimal) decimal.Decimal {
	if opType == entity.OperationTypeEntrada {
		return before.Add(requested)
	}
	return before.Sub(requested)
}

// BuildLines calcula las líneas de la operación a partir de los ítems pendientes
// y las existencias actuales. Si cualquier línea quedara con cantidad negativa,
// se aborta el cálculo completo: el error nombra producto y lote, y el caller
// no debe emitir ninguna petición al HIS (envío atómico, sin aplicación parcial).
func BuildLines(header entity.DraftHeader, items []entity.StagedItem, available AvailabilityFunc) ([]entity.OperationLine, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyDraft
	}

	lines := make([]entity.OperationLine, 0, len(items))
	for _, it := range items {
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: cantidad no positiva para el producto %q", domain.ErrInvalidInput, it.ProductDescription)
		}

		before, ok := available(it.LotID, it.ProductID)
		if !ok {
			before = decimal.Zero
		}
		after := QuantityAfter(header.OperationType, before, it.Quantity)
		if after.IsNegative() {
			return nil, fmt.Errorf(
				"%w: el producto %q en el lote %q tiene %s disponible y se solicitaron %s",
				domain.ErrInsufficientStock,
				it.ProductDescription, it.LotDesignation,
				before.String(), it.Quantity.String(),
			)
		}

		line := entity.OperationLine{
			SourceWarehouseID: header.SourceWarehouseID,
			SourceLotID:       it.LotID,
			ProductID:         it.ProductID,
			QuantityBefore:    before,
			QuantityRequested: it.Quantity,
			QuantityAfter:     after,
		}
		if header.OperationType == entity.OperationTypeTransferencia {
			// La transferencia conserva el lote: mismo lote en el almacén destino.
			dstWh, dstLot := header.DestWarehouseID, it.LotID
			line.DestWarehouseID = &dstWh
			line.DestLotID = &dstLot
		}
		lines = append(lines, line)
	}
	return lines, nil
}
