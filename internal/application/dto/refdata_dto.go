package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// ProductDTO producto del catálogo.
type ProductDTO struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// WarehouseDTO almacén.
type WarehouseDTO struct {
	ID          int64  `json:"id"`
	Designation string `json:"designation"`
}

// SupplierDTO proveedor.
type SupplierDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	NIF   string `json:"nif,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// LotDTO lote.
type LotDTO struct {
	ID          int64      `json:"id"`
	Designation string     `json:"designation"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Active      bool       `json:"active"`
}

// LotLineDTO existencia de un producto en un lote.
type LotLineDTO struct {
	LotID     int64           `json:"lot_id"`
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// LotProductDTO resultado del lookup lote → productos disponibles.
type LotProductDTO struct {
	ProductID          int64           `json:"product_id"`
	ProductDescription string          `json:"product_description"`
	QuantityAvailable  decimal.Decimal `json:"quantity_available"`
}

// FromProduct mapea la entidad a DTO.
func FromProduct(p entity.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Description: p.Description, Price: p.Price, TaxRate: p.TaxRate}
}

// FromWarehouse mapea la entidad a DTO.
func FromWarehouse(w entity.Warehouse) WarehouseDTO {
	return WarehouseDTO{ID: w.ID, Designation: w.Designation}
}

// FromSupplier mapea la entidad a DTO.
func FromSupplier(s entity.Supplier) SupplierDTO {
	return SupplierDTO{ID: s.ID, Name: s.Name, NIF: s.NIF, Phone: s.Phone}
}

// FromLot mapea la entidad a DTO.
func FromLot(l entity.Lot) LotDTO {
	d := LotDTO{ID: l.ID, Designation: l.Designation, Active: l.Active}
	if !l.ExpiresAt.IsZero() {
		exp := l.ExpiresAt
		d.ExpiresAt = &exp
	}
	return d
}

// FromLotLine mapea la entidad a DTO.
func FromLotLine(ll entity.LotLine) LotLineDTO {
	return LotLineDTO{LotID: ll.LotID, ProductID: ll.ProductID, Quantity: ll.Quantity}
}
