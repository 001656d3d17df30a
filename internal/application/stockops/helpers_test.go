package stockops_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/application/stockops"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
	"github.com/hospisys/farmacia-stock/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test: HIS falso + datos del escenario de farmacia
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeHIS implementa ports.HISClient en memoria y cuenta las llamadas,
// para verificar qué peticiones emite (o no emite) cada caso de uso.
type fakeHIS struct {
	mu sync.Mutex

	products   []entity.Product
	warehouses []entity.Warehouse
	lots       []entity.Lot
	lotLines   []entity.LotLine
	suppliers  []entity.Supplier
	operations []entity.Operation

	lotLineFetches   int
	operationFetches int
	created          []entity.OperationSubmission
	updated          map[int64]entity.OperationSubmission
	deleted          []int64

	createErr error
	nextOpID  int64

	// Con ambos canales asignados, CreateOperation avisa por createStarted y
	// espera createRelease antes de registrar — permite observar un envío en vuelo.
	createStarted chan struct{}
	createRelease chan struct{}
}

func (f *fakeHIS) FetchProducts(context.Context) ([]entity.Product, error) {
	return f.products, nil
}

func (f *fakeHIS) FetchWarehouses(context.Context) ([]entity.Warehouse, error) {
	return f.warehouses, nil
}

func (f *fakeHIS) FetchLots(context.Context) ([]entity.Lot, error) {
	return f.lots, nil
}

func (f *fakeHIS) FetchLotLines(context.Context) ([]entity.LotLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lotLineFetches++
	return append([]entity.LotLine(nil), f.lotLines...), nil
}

func (f *fakeHIS) FetchSuppliers(context.Context) ([]entity.Supplier, error) {
	return f.suppliers, nil
}

func (f *fakeHIS) FetchOperations(context.Context) ([]entity.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operationFetches++
	return append([]entity.Operation(nil), f.operations...), nil
}

func (f *fakeHIS) CreateOperation(_ context.Context, sub entity.OperationSubmission) (*entity.Operation, error) {
	if f.createStarted != nil {
		f.createStarted <- struct{}{}
		<-f.createRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, sub)
	f.nextOpID++
	op := &entity.Operation{
		ID:          f.nextOpID,
		Date:        sub.Date,
		Type:        sub.Type,
		UserID:      sub.UserID,
		WarehouseID: sub.WarehouseID,
		Description: sub.Description,
		Lines:       sub.Lines,
	}
	f.operations = append(f.operations, *op)
	return op, nil
}

func (f *fakeHIS) UpdateOperation(_ context.Context, id int64, sub entity.OperationSubmission) (*entity.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[int64]entity.OperationSubmission)
	}
	f.updated[id] = sub
	op := &entity.Operation{ID: id, Type: sub.Type, UserID: sub.UserID, WarehouseID: sub.WarehouseID, Lines: sub.Lines}
	return op, nil
}

func (f *fakeHIS) DeleteOperation(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

// setLotLine cambia la existencia de un par (lote, producto) — simula otra
// sesión moviendo stock entre el armado y el envío.
func (f *fakeHIS) setLotLine(lotID, productID int64, qty string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lotLines {
		if f.lotLines[i].LotID == lotID && f.lotLines[i].ProductID == productID {
			f.lotLines[i].Quantity = dec(qty)
			return
		}
	}
	f.lotLines = append(f.lotLines, entity.LotLine{LotID: lotID, ProductID: productID, Quantity: dec(qty)})
}

// newFakeHIS arma el escenario base: almacenes Central y Anexo; lote L-001
// con 50 de Paracetamol (producto 7) y lote L-002 con 10 de Ibuprofeno
// (producto 9); un lote caducado y otro inactivo para los filtros de lookup.
func newFakeHIS() *fakeHIS {
	future := time.Now().AddDate(1, 0, 0)
	past := time.Now().AddDate(-1, 0, 0)
	return &fakeHIS{
		products: []entity.Product{
			{ID: 7, Description: "Paracetamol 500mg", Price: dec("350"), TaxRate: dec("14")},
			{ID: 9, Description: "Ibuprofeno 400mg", Price: dec("520"), TaxRate: dec("14")},
		},
		warehouses: []entity.Warehouse{
			{ID: 1, Designation: "Central"},
			{ID: 2, Designation: "Anexo"},
		},
		lots: []entity.Lot{
			{ID: 1, Designation: "L-001", ExpiresAt: future, Active: true},
			{ID: 2, Designation: "L-002", ExpiresAt: future, Active: true},
			{ID: 3, Designation: "L-CAD", ExpiresAt: past, Active: true},
			{ID: 4, Designation: "L-INACT", ExpiresAt: future, Active: false},
		},
		lotLines: []entity.LotLine{
			{LotID: 1, ProductID: 7, Quantity: dec("50")},
			{LotID: 2, ProductID: 9, Quantity: dec("10")},
		},
		suppliers: []entity.Supplier{{ID: 1, Name: "Distribuidora Norte"}},
	}
}

type env struct {
	api    *fakeHIS
	store  *refdata.Store
	lookup *stockops.LookupUseCase
	drafts *stockops.DraftManager
	submit *stockops.SubmitUseCase
	ops    *stockops.OperationsUseCase
}

// newEnv levanta el conjunto completo de casos de uso sobre el HIS falso.
func newEnv(t *testing.T) *env {
	t.Helper()
	api := newFakeHIS()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	store := refdata.NewStore(api, log)
	require.NoError(t, store.LoadAll(context.Background()))

	validator := stockops.NewValidator(store)
	drafts := stockops.NewDraftManager(store, validator, time.Hour, log)
	return &env{
		api:    api,
		store:  store,
		lookup: stockops.NewLookupUseCase(store),
		drafts: drafts,
		submit: stockops.NewSubmitUseCase(drafts, validator, store, api, log),
		ops:    stockops.NewOperationsUseCase(store, api, log),
	}
}

func saidaHeader() entity.DraftHeader {
	return entity.DraftHeader{
		OperationType:     entity.OperationTypeSaida,
		SourceWarehouseID: 1,
		Description:       "salida a consulta externa",
		UserID:            3,
	}
}
