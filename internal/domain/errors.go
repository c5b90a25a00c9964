package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// El ledger devuelve siempre uno de estos errores tipados para fallas de negocio;
// solo fallas inesperadas de infraestructura se propagan envueltas con %w.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidQuantity   = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrExpiredOnArrival  = errors.New("la fecha de vencimiento debe ser futura")
	ErrInsufficientStock = errors.New("stock insuficiente en el lote")
	ErrBatchHasMovements = errors.New("el lote tiene movimientos registrados")
	ErrInvalidMovement   = errors.New("movimiento inválido")
	ErrNoOpAdjustment    = errors.New("el ajuste no puede ser cero")
)
