package ports

import (
	"context"

	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

// HISClient define el puerto de salida hacia el backend hospitalario (API REST).
// La implementación concreta vive en internal/infrastructure/his; para tests
// se puede inyectar un mock.
type HISClient interface {
	FetchProducts(ctx context.Context) ([]entity.Product, error)
	FetchWarehouses(ctx context.Context) ([]entity.Warehouse, error)
	FetchLots(ctx context.Context) ([]entity.Lot, error)
	FetchLotLines(ctx context.Context) ([]entity.LotLine, error)
	FetchSuppliers(ctx context.Context) ([]entity.Supplier, error)
	FetchOperations(ctx context.Context) ([]entity.Operation, error)

	// CreateOperation registra una operación nueva con todas sus líneas en un solo POST.
	CreateOperation(ctx context.Context, sub entity.OperationSubmission) (*entity.Operation, error)
	// UpdateOperation reemplaza una operación ya registrada (PUT edit-with-linhas/{id}).
	UpdateOperation(ctx context.Context, id int64, sub entity.OperationSubmission) (*entity.Operation, error)
	DeleteOperation(ctx context.Context, id int64) error
}
