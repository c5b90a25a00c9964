package repository

import (
	"context"

	"github.com/jhoicas/Lotes-api/internal/domain/entity"
)

// MovementRepository define el puerto del registro de movimientos: bitácora
// append-only, fuente de verdad de "qué pasó". Nunca edita ni borra filas.
type MovementRepository interface {
	// Append valida el movimiento (cantidad > 0, atribución excluyente en OUT),
	// asigna id/timestamp si faltan y lo persiste. Falla con ErrInvalidMovement.
	Append(ctx context.Context, movement *entity.Movement) error
	// ListByBatch devuelve el historial completo de un lote ordenado por fecha
	// ascendente. Re-consultar produce el mismo resultado hasta el próximo Append.
	ListByBatch(ctx context.Context, batchID string) ([]*entity.Movement, error)
	CountByBatch(ctx context.Context, batchID string) (int64, error)
}
