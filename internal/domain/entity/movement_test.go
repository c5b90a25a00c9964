package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Lotes-api/internal/domain"
	"github.com/jhoicas/Lotes-api/internal/domain/entity"
)

func validIN() *entity.Movement {
	return &entity.Movement{
		BatchID:  "b-1",
		Type:     entity.MovementTypeIN,
		Quantity: 5,
		UnitID:   "u-1",
	}
}

func validOUT() *entity.Movement {
	return &entity.Movement{
		BatchID:  "b-1",
		Type:     entity.MovementTypeOUT,
		Quantity: 5,
		UnitID:   "u-1",
		Reason:   "merma",
	}
}

func TestMovementValidate_Entradas(t *testing.T) {
	assert.NoError(t, validIN().Validate())

	// Entrada con proveedor: permitido.
	m := validIN()
	m.SupplierID = "s-1"
	assert.NoError(t, m.Validate())

	// Entrada con atribución de salida: inválida.
	m = validIN()
	m.Reason = "merma"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)

	m = validIN()
	m.TransactionID = "tx-1"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)
}

func TestMovementValidate_SalidasAtribucionExcluyente(t *testing.T) {
	assert.NoError(t, validOUT().Validate())

	// Venta: TransactionID en lugar de Reason.
	m := validOUT()
	m.Reason = ""
	m.TransactionID = "venta-1"
	assert.NoError(t, m.Validate())

	// Ambas atribuciones.
	m = validOUT()
	m.TransactionID = "venta-1"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)

	// Ninguna.
	m = validOUT()
	m.Reason = ""
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)

	// Salida con proveedor: inválida.
	m = validOUT()
	m.SupplierID = "s-1"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)
}

func TestMovementValidate_Estructura(t *testing.T) {
	m := validIN()
	m.BatchID = ""
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)

	for _, qty := range []int64{0, -3} {
		m = validIN()
		m.Quantity = qty
		assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)
	}

	m = validIN()
	m.Type = "TRANSFER"
	assert.ErrorIs(t, m.Validate(), domain.ErrInvalidMovement)
}
