package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/application/stockops"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store      *refdata.Store
	Lookup     *stockops.LookupUseCase
	Drafts     *stockops.DraftManager
	Submit     *stockops.SubmitUseCase
	Operations *stockops.OperationsUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Datos de referencia (lectura desde la caché compartida)
	refHandler := NewRefDataHandler(deps.Store, deps.Lookup)
	api.Get("/products", refHandler.ListProducts)
	api.Get("/warehouses", refHandler.ListWarehouses)
	api.Get("/suppliers", refHandler.ListSuppliers)
	api.Get("/lots", refHandler.ListLots)
	api.Get("/lots/:id/products", refHandler.ProductsInLot)
	api.Get("/lot-lines", refHandler.ListLotLines)
	api.Post("/refdata/refresh", refHandler.Refresh)

	// Borradores de operación (área de preparación)
	draftHandler := NewDraftHandler(deps.Drafts, deps.Submit)
	drafts := api.Group("/drafts")
	drafts.Post("/", draftHandler.Create)
	drafts.Get("/:id", draftHandler.Get)
	drafts.Put("/:id/header", draftHandler.UpdateHeader)
	drafts.Post("/:id/items", draftHandler.AddOrUpdateItem)
	drafts.Put("/:id/items/:itemId/quantity", draftHandler.SetQuantity)
	drafts.Delete("/:id/items/:itemId", draftHandler.RemoveItem)
	drafts.Delete("/:id/items", draftHandler.Clear)
	drafts.Post("/:id/submit", draftHandler.Submit)
	drafts.Delete("/:id", draftHandler.Cancel)

	// Operaciones registradas
	opHandler := NewOperationHandler(deps.Operations, deps.Drafts)
	ops := api.Group("/operations")
	ops.Get("/", opHandler.List)
	ops.Get("/:id", opHandler.Get)
	ops.Post("/:id/edit-draft", opHandler.CreateEditDraft)
	ops.Delete("/:id", opHandler.Delete)
}
