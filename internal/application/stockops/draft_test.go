package stockops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospisys/farmacia-stock/internal/application/stockops"
	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

func TestDraft_AgregarItem(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)
	assert.Equal(t, entity.DraftStateBuilding, d.State)
	assert.Empty(t, d.Items)

	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("20")})
	require.NoError(t, err)
	require.Len(t, d.Items, 1)

	it := d.Items[0]
	assert.NotEmpty(t, it.ID, "id temporal asignado")
	assert.Equal(t, "Paracetamol 500mg", it.ProductDescription, "descripción denormalizada")
	assert.Equal(t, "L-001", it.LotDesignation)
	assert.True(t, it.Quantity.Equal(dec("20")))
}

// Editar y re-agregar reemplaza en sitio: el largo no cambia, la posición se
// conserva y la cantidad refleja la última edición.
func TestDraft_EdicionEnSitio(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)

	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("20")})
	require.NoError(t, err)
	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 9, LotID: 2, Quantity: dec("5")})
	require.NoError(t, err)
	require.Len(t, d.Items, 2)
	firstID := d.Items[0].ID

	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{
		EditItemID: firstID, ProductID: 7, LotID: 1, Quantity: dec("35"),
	})
	require.NoError(t, err)
	require.Len(t, d.Items, 2, "reemplaza, no duplica")
	assert.Equal(t, firstID, d.Items[0].ID, "conserva posición e id")
	assert.True(t, d.Items[0].Quantity.Equal(dec("35")), "la cantidad refleja la última edición")
}

// Un candidato rechazado por el validador nunca queda en el borrador.
func TestDraft_ItemRechazadoNoSeAgrega(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)

	_, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 9, LotID: 2, Quantity: dec("11")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	d, err = e.drafts.Get(d.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Items)
}

func TestDraft_QuitarYVaciar(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)

	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("20")})
	require.NoError(t, err)
	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 9, LotID: 2, Quantity: dec("5")})
	require.NoError(t, err)

	d, err = e.drafts.RemoveItem(d.ID, d.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, d.Items, 1)
	assert.Equal(t, int64(9), d.Items[0].ProductID)

	_, err = e.drafts.RemoveItem(d.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, err = e.drafts.Clear(d.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Items)
}

func TestDraft_SetQuantityRevalida(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)
	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 9, LotID: 2, Quantity: dec("5")})
	require.NoError(t, err)
	itemID := d.Items[0].ID

	_, err = e.drafts.SetQuantity(d.ID, itemID, dec("11"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "la nueva cantidad también respeta el techo")

	d, err = e.drafts.SetQuantity(d.ID, itemID, dec("10"))
	require.NoError(t, err)
	assert.True(t, d.Items[0].Quantity.Equal(dec("10")))
}

func TestDraft_Cancelar(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)

	require.NoError(t, e.drafts.Cancel(d.ID))
	_, err = e.drafts.Get(d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraft_IdsTemporalesUnicos(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)

	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("1")})
	require.NoError(t, err)
	d, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("2")})
	require.NoError(t, err)
	assert.NotEqual(t, d.Items[0].ID, d.Items[1].ID)
}

// Tras un envío exitoso la cabecera queda reiniciada: el borrador no acepta
// ítems hasta recibir una cabecera nueva (sin tipo de operación no hay techo
// de stock que aplicar), y con la cabecera repuesta el techo vuelve a regir.
func TestDraft_SinCabeceraNoAceptaItems(t *testing.T) {
	e := newEnv(t)
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)
	_, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("5")})
	require.NoError(t, err)
	_, err = e.submit.Submit(context.Background(), d.ID)
	require.NoError(t, err)

	_, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 9, LotID: 2, Quantity: dec("999")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d, err = e.drafts.Get(d.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Items, "ningún ítem entra sin cabecera")

	_, err = e.drafts.UpdateHeader(d.ID, saidaHeader())
	require.NoError(t, err)
	_, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 9, LotID: 2, Quantity: dec("999")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "con cabecera repuesta el techo vuelve a aplicar")
}

// Un borrador de edición precarga cabecera e ítems de la operación registrada.
func TestDraft_CrearDesdeOperacion(t *testing.T) {
	e := newEnv(t)

	// Registrar una operación vía el flujo normal
	d, err := e.drafts.Create(saidaHeader())
	require.NoError(t, err)
	_, err = e.drafts.AddOrUpdateItem(d.ID, stockops.ItemInput{ProductID: 7, LotID: 1, Quantity: dec("20")})
	require.NoError(t, err)
	op, err := e.submit.Submit(context.Background(), d.ID)
	require.NoError(t, err)

	edit, err := e.drafts.CreateFromOperation(op.ID)
	require.NoError(t, err)
	assert.Equal(t, op.ID, edit.EditingOperationID)
	assert.Equal(t, entity.OperationTypeSaida, edit.Header.OperationType)
	require.Len(t, edit.Items, 1)
	assert.Equal(t, int64(7), edit.Items[0].ProductID)
	assert.True(t, edit.Items[0].Quantity.Equal(dec("20")))
	assert.Equal(t, "Paracetamol 500mg", edit.Items[0].ProductDescription)

	_, err = e.drafts.CreateFromOperation(9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
