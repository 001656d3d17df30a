package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de operación de stock, con los valores que usa el HIS en el wire.
const (
	OperationTypeEntrada       = "ENTRADA"
	OperationTypeSaida         = "SAIDA"
	OperationTypeTransferencia = "TRANSFERENCIA"
	OperationTypeAnulacao      = "ANULACAO"
)

// ValidOperationType indica si t es un tipo de operación conocido.
func ValidOperationType(t string) bool {
	switch t {
	case OperationTypeEntrada, OperationTypeSaida, OperationTypeTransferencia, OperationTypeAnulacao:
		return true
	}
	return false
}

// Outbound indica si el tipo resta existencias del lote origen.
// ENTRADA es el único tipo que suma; no tiene techo de stock.
func Outbound(t string) bool {
	switch t {
	case OperationTypeSaida, OperationTypeTransferencia, OperationTypeAnulacao:
		return true
	}
	return false
}

// OperationLine línea de una operación con las cantidades antes/después calculadas
// en el momento del envío. Los campos de destino solo aplican a TRANSFERENCIA.
type OperationLine struct {
	SourceWarehouseID int64
	SourceLotID       int64
	ProductID         int64
	QuantityBefore    decimal.Decimal
	QuantityRequested decimal.Decimal
	QuantityAfter     decimal.Decimal
	DestWarehouseID   *int64
	DestLotID         *int64
}

// Operation operación de stock ya registrada en el HIS.
type Operation struct {
	ID          int64
	Date        time.Time
	Type        string
	UserID      int64
	WarehouseID int64
	Description string
	Lines       []OperationLine
}

// OperationSubmission payload compuesto que se envía al HIS en un solo POST/PUT.
type OperationSubmission struct {
	Date        time.Time
	Type        string
	UserID      int64
	WarehouseID int64
	Description string
	Lines       []OperationLine
}
