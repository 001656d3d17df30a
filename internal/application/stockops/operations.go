package stockops

import (
	"context"
	"fmt"

	"github.com/hospisys/farmacia-stock/internal/application/dto"
	"github.com/hospisys/farmacia-stock/internal/application/ports"
	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/pkg/logger"
)

// OperationsUseCase consultas y borrado de operaciones ya registradas.
type OperationsUseCase struct {
	store *refdata.Store
	api   ports.HISClient
	log   *logger.Logger
}

// NewOperationsUseCase construye el caso de uso.
func NewOperationsUseCase(store *refdata.Store, api ports.HISClient, log *logger.Logger) *OperationsUseCase {
	return &OperationsUseCase{store: store, api: api, log: log}
}

// List devuelve las operaciones registradas, desde la caché.
func (uc *OperationsUseCase) List() []dto.OperationDTO {
	ops := uc.store.Operations()
	out := make([]dto.OperationDTO, 0, len(ops))
	for _, op := range ops {
		out = append(out, dto.FromOperation(op))
	}
	return out
}

// Get devuelve una operación por id, desde la caché.
func (uc *OperationsUseCase) Get(id int64) (*dto.OperationDTO, error) {
	op, ok := uc.store.Operation(id)
	if !ok {
		return nil, fmt.Errorf("%w: operación %d", domain.ErrNotFound, id)
	}
	d := dto.FromOperation(op)
	return &d, nil
}

// Delete elimina la operación en el HIS y refresca existencias y operaciones.
func (uc *OperationsUseCase) Delete(ctx context.Context, id int64) error {
	if _, ok := uc.store.Operation(id); !ok {
		return fmt.Errorf("%w: operación %d", domain.ErrNotFound, id)
	}
	if err := uc.api.DeleteOperation(ctx, id); err != nil {
		return err
	}
	if err := uc.store.RefreshStock(ctx); err != nil {
		uc.log.Warn().Err(err).Int64("operation_id", id).Msg("operación eliminada pero el refresco de caché falló")
	}
	uc.log.Info().Int64("operation_id", id).Msg("operación eliminada")
	return nil
}
