package stockops

import (
	"sort"
	"time"

	"github.com/hospisys/farmacia-stock/internal/application/dto"
	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// LookupUseCase consultas de solo lectura sobre la caché de referencia.
// Sin efectos; seguro de llamar en cada cambio de selección.
type LookupUseCase struct {
	store *refdata.Store
}

// NewLookupUseCase construye el caso de uso.
func NewLookupUseCase(store *refdata.Store) *LookupUseCase {
	return &LookupUseCase{store: store}
}

// ProductsInLot devuelve los productos con existencia en el lote dado,
// cruzando las líneas de lote con el catálogo de productos.
// Lote desconocido o sin líneas → lista vacía.
func (uc *LookupUseCase) ProductsInLot(lotID int64) []dto.LotProductDTO {
	out := []dto.LotProductDTO{}
	if lotID <= 0 {
		return out
	}
	for _, ll := range uc.store.LotLines() {
		if ll.LotID != lotID {
			continue
		}
		item := dto.LotProductDTO{
			ProductID:         ll.ProductID,
			QuantityAvailable: ll.Quantity,
		}
		if p, ok := uc.store.Product(ll.ProductID); ok {
			item.ProductDescription = p.Description
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// SelectableLots devuelve los lotes elegibles para el tipo de operación:
// para tipos de salida solo lotes activos y no caducados; ENTRADA acepta cualquiera.
func (uc *LookupUseCase) SelectableLots(operationType string, now time.Time) []dto.LotDTO {
	lots := uc.store.Lots()
	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		if entity.Outbound(operationType) && !l.Usable(now) {
			continue
		}
		out = append(out, dto.FromLot(l))
	}
	return out
}
