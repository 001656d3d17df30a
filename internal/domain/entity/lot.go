package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot lote de medicamentos. Los tipos de operación de salida solo pueden
// seleccionar lotes activos y no caducados.
type Lot struct {
	ID          int64
	Designation string
	ExpiresAt   time.Time
	Active      bool
}

// Usable indica si el lote puede usarse como origen de una salida en la fecha dada.
func (l Lot) Usable(now time.Time) bool {
	return l.Active && (l.ExpiresAt.IsZero() || l.ExpiresAt.After(now))
}

// LotLine existencia actual de un producto dentro de un lote.
// Única por par (lote, producto); es el hecho de stock que consulta el validador.
type LotLine struct {
	LotID     int64
	ProductID int64
	Quantity  decimal.Decimal
}
