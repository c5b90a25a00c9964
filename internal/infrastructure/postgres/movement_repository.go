package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Lotes-api/internal/domain/entity"
	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx). La tabla es append-only: no hay UPDATE ni DELETE aquí.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, batch_id, type, quantity, unit_id, date, supplier_id, reason, transaction_id, created_at`

// Append valida y persiste un movimiento. Asigna id y timestamps si faltan.
func (r *MovementRepo) Append(ctx context.Context, movement *entity.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.Date.IsZero() {
		movement.Date = time.Now()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO batch_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.BatchID, movement.Type, movement.Quantity, movement.UnitID,
		movement.Date, nullable(movement.SupplierID), nullable(movement.Reason),
		nullable(movement.TransactionID), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByBatch devuelve el historial completo de un lote, fecha ascendente.
func (r *MovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM batch_movements WHERE batch_id = $1
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var supplierID, reason, transactionID *string
		if err := rows.Scan(&m.ID, &m.BatchID, &m.Type, &m.Quantity, &m.UnitID,
			&m.Date, &supplierID, &reason, &transactionID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if supplierID != nil {
			m.SupplierID = *supplierID
		}
		if reason != nil {
			m.Reason = *reason
		}
		if transactionID != nil {
			m.TransactionID = *transactionID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountByBatch cuenta los movimientos registrados de un lote.
func (r *MovementRepo) CountByBatch(ctx context.Context, batchID string) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM batch_movements WHERE batch_id = $1`, batchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return count, nil
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
