package stockops

import (
	"context"
	"time"

	"github.com/hospisys/farmacia-stock/internal/application/ports"
	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
	"github.com/hospisys/farmacia-stock/internal/domain/stock"
	"github.com/hospisys/farmacia-stock/pkg/logger"
)

// SubmitUseCase envío atómico del borrador: calcula las cantidades
// antes/después de cada línea contra un snapshot fresco de existencias y
// registra la operación completa en el HIS en una sola petición.
// No es idempotente y no se reintenta solo; el doble envío se rechaza
// mientras haya uno en curso.
type SubmitUseCase struct {
	drafts    *DraftManager
	validator *Validator
	store     *refdata.Store
	api       ports.HISClient
	log       *logger.Logger
}

// NewSubmitUseCase construye el caso de uso de envío.
func NewSubmitUseCase(drafts *DraftManager, validator *Validator, store *refdata.Store, api ports.HISClient, log *logger.Logger) *SubmitUseCase {
	return &SubmitUseCase{drafts: drafts, validator: validator, store: store, api: api, log: log}
}

// Submit procesa el borrador completo:
//  1. rechaza borradores vacíos o con cabecera inválida sin tocar el HIS;
//  2. re-trae las líneas de lote para validar contra existencias frescas
//     (el stock pudo cambiar entre el armado y el envío);
//  3. calcula cada línea; una sola cantidad negativa aborta todo el envío
//     antes de cualquier escritura, nombrando producto y lote;
//  4. emite un único POST (operación nueva) o PUT (edición);
//  5. con éxito vacía el borrador y refresca líneas de lote y operaciones;
//     con fallo el borrador queda intacto para corregir y reintentar.
func (uc *SubmitUseCase) Submit(ctx context.Context, draftID string) (*entity.Operation, error) {
	snap, err := uc.drafts.beginSubmit(draftID)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() { uc.drafts.finishSubmit(draftID, committed) }()

	if err := uc.validator.ValidateHeader(snap.Header); err != nil {
		return nil, err
	}

	// Snapshot fresco de existencias. Si el HIS no responde aquí se sigue con
	// la caché actual: la petición de registro sigue siendo el control final.
	if fresh, ferr := uc.api.FetchLotLines(ctx); ferr != nil {
		uc.log.Warn().Err(ferr).Str("draft_id", draftID).Msg("no se pudo refrescar existencias antes del envío")
	} else {
		uc.store.ReplaceLotLines(fresh)
	}

	lines, err := stock.BuildLines(snap.Header, snap.Items, uc.store.LotLine)
	if err != nil {
		return nil, err
	}

	sub := entity.OperationSubmission{
		Date:        time.Now(),
		Type:        snap.Header.OperationType,
		UserID:      snap.Header.UserID,
		WarehouseID: snap.Header.SourceWarehouseID,
		Description: snap.Header.Description,
		Lines:       lines,
	}

	var op *entity.Operation
	if snap.EditingOperationID > 0 {
		op, err = uc.api.UpdateOperation(ctx, snap.EditingOperationID, sub)
	} else {
		op, err = uc.api.CreateOperation(ctx, sub)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("draft_id", draftID).Msg("el HIS rechazó la operación")
		return nil, err
	}
	committed = true

	// Ambas colecciones deben refrescarse para que los próximos lookups vean
	// las cantidades nuevas; si falla, la operación ya quedó registrada.
	if rerr := uc.store.RefreshStock(ctx); rerr != nil {
		uc.log.Warn().Err(rerr).Msg("operación registrada pero el refresco de caché falló")
	}

	uc.log.Info().
		Str("draft_id", draftID).
		Int64("operation_id", op.ID).
		Str("tipo", op.Type).
		Int("lineas", len(op.Lines)).
		Msg("operación de stock registrada")
	return op, nil
}
