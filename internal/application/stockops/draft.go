package stockops

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hospisys/farmacia-stock/internal/application/refdata"
	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
	"github.com/hospisys/farmacia-stock/pkg/logger"
)

// ItemInput candidato a ítem pendiente. Con EditItemID presente se reemplaza
// ese ítem en su posición (edición en sitio); sin él se agrega al final.
type ItemInput struct {
	EditItemID string
	ProductID  int64
	LotID      int64
	Quantity   decimal.Decimal
}

// DraftManager área de preparación de operaciones: borradores en memoria con
// sus ítems pendientes. Las mutaciones son síncronas y locales — nunca tocan
// el HIS; el envío es responsabilidad de SubmitUseCase.
type DraftManager struct {
	mu        sync.Mutex
	drafts    map[string]*entity.OperationDraft
	validator *Validator
	store     *refdata.Store
	ttl       time.Duration
	log       *logger.Logger
}

// NewDraftManager construye el gestor de borradores.
func NewDraftManager(store *refdata.Store, validator *Validator, ttl time.Duration, log *logger.Logger) *DraftManager {
	return &DraftManager{
		drafts:    make(map[string]*entity.OperationDraft),
		validator: validator,
		store:     store,
		ttl:       ttl,
		log:       log,
	}
}

// Create abre un borrador nuevo con la cabecera dada.
func (m *DraftManager) Create(header entity.DraftHeader) (*entity.OperationDraft, error) {
	if err := m.validator.ValidateHeader(header); err != nil {
		return nil, err
	}
	now := time.Now()
	d := &entity.OperationDraft{
		ID:        uuid.New().String(),
		Header:    header,
		Items:     []entity.StagedItem{},
		State:     entity.DraftStateBuilding,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.drafts[d.ID] = d
	m.mu.Unlock()

	m.log.Debug().Str("draft_id", d.ID).Str("tipo", header.OperationType).Msg("borrador creado")
	return snapshot(d), nil
}

// CreateFromOperation abre un borrador precargado desde una operación ya
// registrada, para editarla (el envío hará PUT en vez de POST).
func (m *DraftManager) CreateFromOperation(operationID int64) (*entity.OperationDraft, error) {
	op, ok := m.store.Operation(operationID)
	if !ok {
		return nil, fmt.Errorf("%w: operación %d", domain.ErrNotFound, operationID)
	}

	header := entity.DraftHeader{
		OperationType:     op.Type,
		SourceWarehouseID: op.WarehouseID,
		Description:       op.Description,
		UserID:            op.UserID,
	}
	if op.Type == entity.OperationTypeTransferencia && len(op.Lines) > 0 && op.Lines[0].DestWarehouseID != nil {
		header.DestWarehouseID = *op.Lines[0].DestWarehouseID
	}
	if err := m.validator.ValidateHeader(header); err != nil {
		return nil, err
	}

	now := time.Now()
	d := &entity.OperationDraft{
		ID:                 uuid.New().String(),
		Header:             header,
		Items:              make([]entity.StagedItem, 0, len(op.Lines)),
		EditingOperationID: op.ID,
		State:              entity.DraftStateBuilding,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, line := range op.Lines {
		item := entity.StagedItem{
			ID:        uuid.New().String(),
			ProductID: line.ProductID,
			LotID:     line.SourceLotID,
			Quantity:  line.QuantityRequested,
		}
		m.denormalize(&item)
		d.Items = append(d.Items, item)
	}

	m.mu.Lock()
	m.drafts[d.ID] = d
	m.mu.Unlock()

	m.log.Debug().Str("draft_id", d.ID).Int64("operation_id", op.ID).Msg("borrador de edición creado")
	return snapshot(d), nil
}

// Get devuelve el estado actual del borrador.
func (m *DraftManager) Get(draftID string) (*entity.OperationDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.locked(draftID)
	if err != nil {
		return nil, err
	}
	return snapshot(d), nil
}

// UpdateHeader reemplaza la cabecera del borrador. Los ítems pendientes se
// conservan; volverán a validarse contra la cabecera nueva en el envío.
func (m *DraftManager) UpdateHeader(draftID string, header entity.DraftHeader) (*entity.OperationDraft, error) {
	if err := m.validator.ValidateHeader(header); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.mutable(draftID)
	if err != nil {
		return nil, err
	}
	d.Header = header
	d.UpdatedAt = time.Now()
	return snapshot(d), nil
}

// AddOrUpdateItem valida el candidato y lo agrega al borrador; con EditItemID
// reemplaza el ítem existente en su posición, conservando su id temporal.
// Un candidato rechazado nunca queda en el borrador.
func (m *DraftManager) AddOrUpdateItem(draftID string, in ItemInput) (*entity.OperationDraft, error) {
	item := entity.StagedItem{
		ID:        in.EditItemID,
		ProductID: in.ProductID,
		LotID:     in.LotID,
		Quantity:  in.Quantity,
	}
	if _, ok := m.store.Product(in.ProductID); !ok {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, in.ProductID)
	}
	if _, ok := m.store.Lot(in.LotID); !ok {
		return nil, fmt.Errorf("%w: lote %d", domain.ErrNotFound, in.LotID)
	}
	m.denormalize(&item)

	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.mutable(draftID)
	if err != nil {
		return nil, err
	}
	// La cabecera debe estar completa antes de aceptar ítems: el techo de stock
	// depende del tipo de operación. Tras un envío exitoso el borrador vuelve a
	// vacío y exige una cabecera nueva.
	if err := m.validator.ValidateHeader(d.Header); err != nil {
		return nil, err
	}
	if err := m.validator.ValidateItem(d.Header, item); err != nil {
		return nil, err
	}

	if in.EditItemID != "" {
		existing, pos := d.Item(in.EditItemID)
		if existing == nil {
			return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, in.EditItemID)
		}
		d.Items[pos] = item
	} else {
		item.ID = uuid.New().String()
		d.Items = append(d.Items, item)
	}
	d.UpdatedAt = time.Now()
	return snapshot(d), nil
}

// SetQuantity cambia la cantidad de un ítem pendiente, re-validando contra
// las existencias actuales.
func (m *DraftManager) SetQuantity(draftID, itemID string, qty decimal.Decimal) (*entity.OperationDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.mutable(draftID)
	if err != nil {
		return nil, err
	}
	existing, pos := d.Item(itemID)
	if existing == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	candidate := *existing
	candidate.Quantity = qty
	if err := m.validator.ValidateHeader(d.Header); err != nil {
		return nil, err
	}
	if err := m.validator.ValidateItem(d.Header, candidate); err != nil {
		return nil, err
	}
	d.Items[pos] = candidate
	d.UpdatedAt = time.Now()
	return snapshot(d), nil
}

// RemoveItem quita un ítem pendiente del borrador.
func (m *DraftManager) RemoveItem(draftID, itemID string) (*entity.OperationDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.mutable(draftID)
	if err != nil {
		return nil, err
	}
	existing, pos := d.Item(itemID)
	if existing == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	d.Items = append(d.Items[:pos], d.Items[pos+1:]...)
	d.UpdatedAt = time.Now()
	return snapshot(d), nil
}

// Clear vacía los ítems del borrador conservando la cabecera.
func (m *DraftManager) Clear(draftID string) (*entity.OperationDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.mutable(draftID)
	if err != nil {
		return nil, err
	}
	d.Items = []entity.StagedItem{}
	d.UpdatedAt = time.Now()
	return snapshot(d), nil
}

// Cancel descarta el borrador completo.
func (m *DraftManager) Cancel(draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.locked(draftID)
	if err != nil {
		return err
	}
	if d.State == entity.DraftStateSubmitting {
		return domain.ErrDraftSubmitting
	}
	delete(m.drafts, draftID)
	return nil
}

// beginSubmit marca el borrador como SUBMITTING y devuelve una copia para
// calcular las líneas fuera del lock. Rechaza el doble envío.
func (m *DraftManager) beginSubmit(draftID string) (*entity.OperationDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.locked(draftID)
	if err != nil {
		return nil, err
	}
	if d.State == entity.DraftStateSubmitting {
		return nil, domain.ErrDraftSubmitting
	}
	if len(d.Items) == 0 {
		return nil, domain.ErrEmptyDraft
	}
	d.State = entity.DraftStateSubmitting
	return snapshot(d), nil
}

// finishSubmit cierra el envío. Con éxito el borrador vuelve a vacío
// (sin ítems, sin marca de edición, cabecera reiniciada); con fallo queda
// intacto en BUILDING para corregir y reintentar.
func (m *DraftManager) finishSubmit(draftID string, committed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[draftID]
	if !ok {
		return
	}
	d.State = entity.DraftStateBuilding
	d.UpdatedAt = time.Now()
	if committed {
		d.Items = []entity.StagedItem{}
		d.EditingOperationID = 0
		d.Header = entity.DraftHeader{}
	}
}

// StartSweeper descarta periódicamente los borradores sin actividad
// durante más del TTL configurado. Corre hasta que ctx se cancele.
func (m *DraftManager) StartSweeper(ctx context.Context) {
	interval := m.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *DraftManager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.drafts {
		if d.State == entity.DraftStateSubmitting {
			continue
		}
		if now.Sub(d.UpdatedAt) > m.ttl {
			delete(m.drafts, id)
			m.log.Info().Str("draft_id", id).Msg("borrador inactivo descartado")
		}
	}
}

// denormalize copia descripción del producto y designación del lote al ítem,
// para mostrarlos y para mensajes de error sin volver a cruzar la caché.
func (m *DraftManager) denormalize(item *entity.StagedItem) {
	if p, ok := m.store.Product(item.ProductID); ok {
		item.ProductDescription = p.Description
	}
	if l, ok := m.store.Lot(item.LotID); ok {
		item.LotDesignation = l.Designation
	}
}

func (m *DraftManager) locked(draftID string) (*entity.OperationDraft, error) {
	d, ok := m.drafts[draftID]
	if !ok {
		return nil, fmt.Errorf("%w: borrador %s", domain.ErrNotFound, draftID)
	}
	return d, nil
}

func (m *DraftManager) mutable(draftID string) (*entity.OperationDraft, error) {
	d, err := m.locked(draftID)
	if err != nil {
		return nil, err
	}
	if d.State == entity.DraftStateSubmitting {
		return nil, domain.ErrDraftSubmitting
	}
	return d, nil
}

// snapshot devuelve una copia del borrador con los ítems copiados,
// para que el caller no comparta memoria con el estado interno.
func snapshot(d *entity.OperationDraft) *entity.OperationDraft {
	c := *d
	c.Items = append([]entity.StagedItem(nil), d.Items...)
	return &c
}
