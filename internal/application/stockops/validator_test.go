package stockops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hospisys/farmacia-stock/internal/application/stockops"
	"github.com/hospisys/farmacia-stock/internal/domain"
	"github.com/hospisys/farmacia-stock/internal/domain/entity"
)

func newValidator(t *testing.T) (*stockops.Validator, *env) {
	e := newEnv(t)
	return stockops.NewValidator(e.store), e
}

func stagedItem(productID, lotID int64, qty string) entity.StagedItem {
	return entity.StagedItem{
		ProductID:          productID,
		ProductDescription: "Ibuprofeno 400mg",
		LotID:              lotID,
		LotDesignation:     "L-002",
		Quantity:           dec(qty),
	}
}

// Retirar 11 de un par con 10 disponible se rechaza; retirar exactamente 10 pasa.
func TestValidateItem_RechazaSobregiro(t *testing.T) {
	v, _ := newValidator(t)
	header := saidaHeader()

	err := v.ValidateItem(header, stagedItem(9, 2, "11"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	// El mensaje nombra producto, lote y cantidad disponible.
	assert.Contains(t, err.Error(), "Ibuprofeno 400mg")
	assert.Contains(t, err.Error(), "L-002")
	assert.Contains(t, err.Error(), "10")

	assert.NoError(t, v.ValidateItem(header, stagedItem(9, 2, "10")))
}

// ENTRADA no tiene techo: el stock siempre puede crecer, incluso sin línea previa.
func TestValidateItem_EntradaSinTecho(t *testing.T) {
	v, _ := newValidator(t)
	header := entity.DraftHeader{
		OperationType:     entity.OperationTypeEntrada,
		SourceWarehouseID: 1,
		UserID:            3,
	}
	assert.NoError(t, v.ValidateItem(header, stagedItem(9, 2, "100000")))
	assert.NoError(t, v.ValidateItem(header, stagedItem(7, 2, "5")), "par sin línea previa")
}

func TestValidateItem_CantidadPositivaObligatoria(t *testing.T) {
	v, _ := newValidator(t)
	header := saidaHeader()
	assert.ErrorIs(t, v.ValidateItem(header, stagedItem(9, 2, "0")), domain.ErrInvalidInput)
	assert.ErrorIs(t, v.ValidateItem(header, stagedItem(9, 2, "-3")), domain.ErrInvalidInput)
}

// ANULACAO y TRANSFERENCIA también restan, así que comparten el techo de stock.
func TestValidateItem_AnulacionYTransferenciaRestan(t *testing.T) {
	v, _ := newValidator(t)
	for _, tipo := range []string{entity.OperationTypeAnulacao, entity.OperationTypeTransferencia} {
		header := saidaHeader()
		header.OperationType = tipo
		if tipo == entity.OperationTypeTransferencia {
			header.DestWarehouseID = 2
		}
		assert.ErrorIs(t, v.ValidateItem(header, stagedItem(9, 2, "10.01")), domain.ErrInsufficientStock, tipo)
	}
}

func TestValidateHeader_TransferenciaExigeDestino(t *testing.T) {
	v, _ := newValidator(t)

	header := entity.DraftHeader{
		OperationType:     entity.OperationTypeTransferencia,
		SourceWarehouseID: 1,
		UserID:            3,
	}
	err := v.ValidateHeader(header)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "destino")

	header.DestWarehouseID = 1
	assert.ErrorIs(t, v.ValidateHeader(header), domain.ErrInvalidInput, "destino igual al origen")

	header.DestWarehouseID = 2
	assert.NoError(t, v.ValidateHeader(header))
}

func TestValidateHeader_Reglas(t *testing.T) {
	v, _ := newValidator(t)

	assert.ErrorIs(t, v.ValidateHeader(entity.DraftHeader{
		OperationType: "PRESTAMO", SourceWarehouseID: 1,
	}), domain.ErrInvalidInput, "tipo desconocido")

	assert.ErrorIs(t, v.ValidateHeader(entity.DraftHeader{
		OperationType: entity.OperationTypeSaida,
	}), domain.ErrInvalidInput, "sin almacén origen")

	assert.ErrorIs(t, v.ValidateHeader(entity.DraftHeader{
		OperationType: entity.OperationTypeSaida, SourceWarehouseID: 99,
	}), domain.ErrNotFound, "almacén inexistente")

	assert.ErrorIs(t, v.ValidateHeader(entity.DraftHeader{
		OperationType: entity.OperationTypeSaida, SourceWarehouseID: 1, DestWarehouseID: 2,
	}), domain.ErrInvalidInput, "destino fuera de TRANSFERENCIA")
}
