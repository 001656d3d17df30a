package entity

import "github.com/shopspring/decimal"

// Product producto del catálogo de farmacia. Referencia de solo lectura:
// el HIS es el dueño del registro, aquí solo se espeja.
type Product struct {
	ID          int64
	Description string
	Price       decimal.Decimal
	TaxRate     decimal.Decimal
}
