package refdata

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/application/ports"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
	"github.com/hospisys/farmacia-stock/pkg/logger"
)

// Store caché compartida de colecciones de referencia (productos, almacenes,
// lotes, líneas de lote, proveedores, operaciones). Lectura concurrente;
// las mutaciones reemplazan la colección completa tras un round trip exitoso
// al HIS — nunca se parchea parcialmente.
type Store struct {
	mu sync.RWMutex

	products   []entity.Product
	warehouses []entity.Warehouse
	lots       []entity.Lot
	lotLines   []entity.LotLine
	suppliers  []entity.Supplier
	operations []entity.Operation

	api ports.HISClient
	log *logger.Logger
}

// NewStore construye la caché vacía; LoadAll la llena.
func NewStore(api ports.HISClient, log *logger.Logger) *Store {
	return &Store{api: api, log: log}
}

// LoadAll trae las seis colecciones del HIS y reemplaza la caché completa.
func (s *Store) LoadAll(ctx context.Context) error {
	products, err := s.api.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("cargar productos: %w", err)
	}
	warehouses, err := s.api.FetchWarehouses(ctx)
	if err != nil {
		return fmt.Errorf("cargar almacenes: %w", err)
	}
	lots, err := s.api.FetchLots(ctx)
	if err != nil {
		return fmt.Errorf("cargar lotes: %w", err)
	}
	lotLines, err := s.api.FetchLotLines(ctx)
	if err != nil {
		return fmt.Errorf("cargar líneas de lote: %w", err)
	}
	suppliers, err := s.api.FetchSuppliers(ctx)
	if err != nil {
		return fmt.Errorf("cargar proveedores: %w", err)
	}
	operations, err := s.api.FetchOperations(ctx)
	if err != nil {
		return fmt.Errorf("cargar operaciones: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.warehouses = warehouses
	s.lots = lots
	s.lotLines = lotLines
	s.suppliers = suppliers
	s.operations = operations
	s.mu.Unlock()

	s.log.Info().
		Int("productos", len(products)).
		Int("lotes", len(lots)).
		Int("lineas_lote", len(lotLines)).
		Int("operaciones", len(operations)).
		Msg("datos de referencia cargados")
	return nil
}

// RefreshStock re-trae líneas de lote y operaciones tras un envío exitoso.
// Las dos peticiones se lanzan en paralelo (no hay dependencia de orden entre
// ellas) y ambas deben resolver antes de considerar la caché actualizada.
func (s *Store) RefreshStock(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		lotLines []entity.LotLine
		ops      []entity.Operation
		errLL    error
		errOps   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lotLines, errLL = s.api.FetchLotLines(ctx)
	}()
	go func() {
		defer wg.Done()
		ops, errOps = s.api.FetchOperations(ctx)
	}()
	wg.Wait()

	if errLL != nil {
		return fmt.Errorf("refrescar líneas de lote: %w", errLL)
	}
	if errOps != nil {
		return fmt.Errorf("refrescar operaciones: %w", errOps)
	}

	s.mu.Lock()
	s.lotLines = lotLines
	s.operations = ops
	s.mu.Unlock()
	return nil
}

// ReplaceLotLines reemplaza solo las líneas de lote (snapshot fresco previo al envío).
func (s *Store) ReplaceLotLines(lines []entity.LotLine) {
	s.mu.Lock()
	s.lotLines = lines
	s.mu.Unlock()
}

// Products devuelve una copia de la colección de productos.
func (s *Store) Products() []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Product(nil), s.products...)
}

// Warehouses devuelve una copia de la colección de almacenes.
func (s *Store) Warehouses() []entity.Warehouse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Warehouse(nil), s.warehouses...)
}

// Lots devuelve una copia de la colección de lotes.
func (s *Store) Lots() []entity.Lot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Lot(nil), s.lots...)
}

// LotLines devuelve una copia de las líneas de lote.
func (s *Store) LotLines() []entity.LotLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.LotLine(nil), s.lotLines...)
}

// Suppliers devuelve una copia de la colección de proveedores.
func (s *Store) Suppliers() []entity.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Supplier(nil), s.suppliers...)
}

// Operations devuelve una copia de las operaciones registradas.
func (s *Store) Operations() []entity.Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Operation(nil), s.operations...)
}

// Product busca un producto por id.
func (s *Store) Product(id int64) (entity.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Lot busca un lote por id.
func (s *Store) Lot(id int64) (entity.Lot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lots {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Lot{}, false
}

// Warehouse busca un almacén por id.
func (s *Store) Warehouse(id int64) (entity.Warehouse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.warehouses {
		if w.ID == id {
			return w, true
		}
	}
	return entity.Warehouse{}, false
}

// Operation busca una operación registrada por id.
func (s *Store) Operation(id int64) (entity.Operation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, op := range s.operations {
		if op.ID == id {
			return op, true
		}
	}
	return entity.Operation{}, false
}

// LotLine devuelve la existencia del par (lote, producto).
// ok = false si no hay línea registrada (existencia cero).
func (s *Store) LotLine(lotID, productID int64) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ll := range s.lotLines {
		if ll.LotID == lotID && ll.ProductID == productID {
			return ll.Quantity, true
		}
	}
	return decimal.Zero, false
}
