package repository

import (
	"context"

	"github.com/jhoicas/Lotes-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes (DIP).
// Es el único dueño de la proyección RemainingQuantity: AddQuantity y
// SubtractQuantity son el único camino que la modifica.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	// GetForUpdate obtiene el lote bloqueando la fila (SELECT FOR UPDATE);
	// usar solo dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// AddQuantity suma quantity (> 0) a la proyección. Falla con ErrNotFound
	// si el lote no existe.
	AddQuantity(ctx context.Context, id string, quantity int64) error
	// SubtractQuantity resta quantity (> 0) de forma atómica: el decremento
	// solo procede si la cantidad restante alcanza (check-and-decrement en un
	// solo paso). Falla con ErrInsufficientStock sin tocar la proyección si no
	// alcanza, o con ErrNotFound si el lote no existe.
	SubtractQuantity(ctx context.Context, id string, quantity int64) error
	Delete(ctx context.Context, id string) error
}
