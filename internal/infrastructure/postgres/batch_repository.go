package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Lotes-api/internal/domain"
	"github.com/jhoicas/Lotes-api/internal/domain/entity"
	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, unit_id, batch_code, expiry_date, initial_quantity, remaining_quantity, buy_price, supplier_id, created_at, updated_at`

// Create persiste un lote nuevo. El código de lote es único por producto:
// una colisión devuelve ErrDuplicate.
func (r *BatchRepo) Create(ctx context.Context, batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	supplierID := (*string)(nil)
	if batch.SupplierID != "" {
		supplierID = &batch.SupplierID
	}
	_, err := r.q.Exec(ctx, query,
		batch.ID, batch.ProductID, batch.UnitID, batch.BatchCode, batch.ExpiryDate,
		batch.InitialQuantity, batch.RemainingQuantity, batch.BuyPrice, supplierID,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve (nil, nil) si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get batch")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id), "get batch for update")
}

// AddQuantity suma quantity a la proyección del lote.
func (r *BatchRepo) AddQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET remaining_quantity = remaining_quantity + $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("add quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SubtractQuantity resta quantity de forma atómica: la condición de stock va en
// el WHERE, así el chequeo y el decremento son un solo paso y dos retiros
// concurrentes nunca dejan la proyección en negativo.
func (r *BatchRepo) SubtractQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE batches SET remaining_quantity = remaining_quantity - $2, updated_at = now()
		 WHERE id = $1 AND remaining_quantity >= $2`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("subtract quantity: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	// Cero filas: o el lote no existe, o el stock no alcanza. Distinguir.
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM batches WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check batch exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInsufficientStock
}

// Delete elimina un lote por ID. La guarda de elegibilidad (sin movimientos,
// cantidad intacta) se verifica en el servicio dentro de la misma transacción.
func (r *BatchRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) scanOne(row pgx.Row, op string) (*entity.Batch, error) {
	var b entity.Batch
	var supplierID *string
	err := row.Scan(
		&b.ID, &b.ProductID, &b.UnitID, &b.BatchCode, &b.ExpiryDate,
		&b.InitialQuantity, &b.RemainingQuantity, &b.BuyPrice, &supplierID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if supplierID != nil {
		b.SupplierID = *supplierID
	}
	return &b, nil
}
