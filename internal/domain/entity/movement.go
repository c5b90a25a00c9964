package entity

import (
	"time"

	"github.com/jhoicas/Lotes-api/internal/domain"
)

// Tipos de movimiento de lote. La dirección la da el tipo; Quantity es siempre > 0.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Movement representa un cambio inmutable de cantidad sobre un lote.
// Los movimientos nunca se editan ni se borran: una corrección se registra
// como un movimiento compensatorio nuevo.
//
// Atribución:
//   - IN: SupplierID opcional (vacío = adición manual/interna).
//   - OUT: exactamente uno de Reason (retiro manual) o TransactionID (venta).
type Movement struct {
	ID            string
	BatchID       string
	Type          string
	Quantity      int64
	UnitID        string
	Date          time.Time
	SupplierID    string
	Reason        string
	TransactionID string
	CreatedAt     time.Time
}

// Validate verifica las reglas estructurales de un movimiento antes de persistirlo:
// tipo conocido, cantidad positiva y atribución excluyente en salidas.
func (m *Movement) Validate() error {
	if m.BatchID == "" {
		return domain.ErrInvalidMovement
	}
	if m.Quantity <= 0 {
		return domain.ErrInvalidMovement
	}
	switch m.Type {
	case MovementTypeIN:
		if m.Reason != "" || m.TransactionID != "" {
			return domain.ErrInvalidMovement
		}
	case MovementTypeOUT:
		// Exactamente una atribución: razón manual o transacción de venta.
		if (m.Reason == "") == (m.TransactionID == "") {
			return domain.ErrInvalidMovement
		}
		if m.SupplierID != "" {
			return domain.ErrInvalidMovement
		}
	default:
		return domain.ErrInvalidMovement
	}
	return nil
}
