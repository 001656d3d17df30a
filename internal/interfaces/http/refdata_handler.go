package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hospisys/farmacia-stock/internal/application/dto"
	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/application/stockops"
)

// RefDataHandler expone las colecciones de referencia desde la caché compartida.
// Las demás vistas de farmacia (lotes, proveedores, almacenes) consumen estas
// mismas colecciones; por eso el envío de una operación las refresca.
type RefDataHandler struct {
	store  *refdata.Store
	lookup *stockops.LookupUseCase
}

// NewRefDataHandler construye el handler.
func NewRefDataHandler(store *refdata.Store, lookup *stockops.LookupUseCase) *RefDataHandler {
	return &RefDataHandler{store: store, lookup: lookup}
}

// ListProducts godoc
// @Summary      Catálogo de productos
// @Tags         refdata
// @Produce      json
// @Success      200  {array}  dto.ProductDTO
// @Router       /api/products [get]
func (h *RefDataHandler) ListProducts(c *fiber.Ctx) error {
	products := h.store.Products()
	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.FromProduct(p))
	}
	return c.JSON(out)
}

// ListWarehouses godoc
// @Summary      Almacenes
// @Tags         refdata
// @Produce      json
// @Success      200  {array}  dto.WarehouseDTO
// @Router       /api/warehouses [get]
func (h *RefDataHandler) ListWarehouses(c *fiber.Ctx) error {
	warehouses := h.store.Warehouses()
	out := make([]dto.WarehouseDTO, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, dto.FromWarehouse(w))
	}
	return c.JSON(out)
}

// ListSuppliers godoc
// @Summary      Proveedores
// @Tags         refdata
// @Produce      json
// @Success      200  {array}  dto.SupplierDTO
// @Router       /api/suppliers [get]
func (h *RefDataHandler) ListSuppliers(c *fiber.Ctx) error {
	suppliers := h.store.Suppliers()
	out := make([]dto.SupplierDTO, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, dto.FromSupplier(s))
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Lotes
// @Description  Con ?operation_type= filtra a los lotes elegibles para ese tipo
//
//	(tipos de salida: solo lotes activos y no caducados).
//
// @Tags         refdata
// @Produce      json
// @Param        operation_type  query  string  false  "ENTRADA | SAIDA | TRANSFERENCIA | ANULACAO"
// @Success      200  {array}  dto.LotDTO
// @Router       /api/lots [get]
func (h *RefDataHandler) ListLots(c *fiber.Ctx) error {
	if opType := c.Query("operation_type"); opType != "" {
		return c.JSON(h.lookup.SelectableLots(opType, time.Now()))
	}
	lots := h.store.Lots()
	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.FromLot(l))
	}
	return c.JSON(out)
}

// ProductsInLot godoc
// @Summary      Productos con existencia en un lote
// @Tags         refdata
// @Produce      json
// @Param        id  path  int  true  "ID del lote"
// @Success      200  {array}  dto.LotProductDTO
// @Router       /api/lots/{id}/products [get]
func (h *RefDataHandler) ProductsInLot(c *fiber.Ctx) error {
	lotID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de lote inválido"})
	}
	return c.JSON(h.lookup.ProductsInLot(int64(lotID)))
}

// ListLotLines godoc
// @Summary      Líneas de lote (existencia por par lote/producto)
// @Tags         refdata
// @Produce      json
// @Success      200  {array}  dto.LotLineDTO
// @Router       /api/lot-lines [get]
func (h *RefDataHandler) ListLotLines(c *fiber.Ctx) error {
	lines := h.store.LotLines()
	out := make([]dto.LotLineDTO, 0, len(lines))
	for _, ll := range lines {
		out = append(out, dto.FromLotLine(ll))
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Recargar todas las colecciones de referencia desde el HIS
// @Tags         refdata
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/refdata/refresh [post]
func (h *RefDataHandler) Refresh(c *fiber.Ctx) error {
	if err := h.store.LoadAll(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "datos de referencia recargados"})
}
