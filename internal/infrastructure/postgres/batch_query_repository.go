package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Lotes-api/internal/domain/entity"
	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

var _ repository.BatchQueryRepository = (*BatchQueryRepo)(nil)

// BatchQueryRepo consultas de solo lectura del motor de listados de lotes.
// Une lotes con producto y categoría para los nombres denormalizados.
type BatchQueryRepo struct {
	q Querier
}

// NewBatchQueryRepository construye el adaptador de consultas. Pasar pool o tx (Querier).
func NewBatchQueryRepository(q Querier) *BatchQueryRepo {
	return &BatchQueryRepo{q: q}
}

const batchListColumns = `
	b.id, b.product_id, b.unit_id, b.batch_code, b.expiry_date,
	b.initial_quantity, b.remaining_quantity, b.buy_price, b.supplier_id,
	b.created_at, b.updated_at,
	p.name, p.code, COALESCE(p.category_id, ''), COALESCE(c.name, '')`

const batchListFrom = `
	FROM batches b
	JOIN products p ON p.id = b.product_id
	LEFT JOIN categories c ON c.id = p.category_id`

// batchListWhere arma la cláusula WHERE del listado a partir del filtro
// cerrado. Devuelve el SQL (vacío si no hay condiciones, con " WHERE ..." si
// las hay) y los argumentos posicionales. Los filtros se componen con AND y
// los rangos son inclusivos.
func batchListWhere(f repository.BatchListFilter) (string, []any) {
	where := ""
	var args []any
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	pos := 1
	if f.Search != "" {
		and(fmt.Sprintf("(p.name ILIKE $%d OR b.batch_code ILIKE $%d)", pos, pos))
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	if f.CategoryID != "" {
		and(fmt.Sprintf("p.category_id = $%d", pos))
		args = append(args, f.CategoryID)
		pos++
	}
	if f.ExpiryDateStart != nil {
		and(fmt.Sprintf("b.expiry_date >= $%d", pos))
		args = append(args, *f.ExpiryDateStart)
		pos++
	}
	if f.ExpiryDateEnd != nil {
		and(fmt.Sprintf("b.expiry_date <= $%d", pos))
		args = append(args, *f.ExpiryDateEnd)
		pos++
	}
	if f.MinRemainingQuantity != nil {
		and(fmt.Sprintf("b.remaining_quantity >= $%d", pos))
		args = append(args, *f.MinRemainingQuantity)
		pos++
	}
	if f.MaxRemainingQuantity != nil {
		and(fmt.Sprintf("b.remaining_quantity <= $%d", pos))
		args = append(args, *f.MaxRemainingQuantity)
		pos++
	}
	if !f.IncludeExpired {
		// Vencido = ahora posterior al vencimiento; se conserva lo no vencido.
		and(fmt.Sprintf("b.expiry_date >= $%d", pos))
		args = append(args, f.Now)
		pos++
	}
	if !f.IncludeOutOfStock {
		and("b.remaining_quantity > 0")
	}
	return where, args
}

// batchListOrder traduce el ordenamiento validado a la cláusula ORDER BY.
// El campo ya pasó la lista blanca en el caso de uso; aquí solo se mapea.
func batchListOrder(sort repository.BatchSort) string {
	field := "b." + sort.Field
	dir := "ASC"
	if sort.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, b.id ASC", field, dir)
}

// List devuelve la página de lotes que cumplen el filtro y el total de filas
// coincidentes (sobre el conjunto filtrado, no la tabla completa).
func (r *BatchQueryRepo) List(ctx context.Context, filter repository.BatchListFilter, sort repository.BatchSort, limit, offset int) ([]*repository.BatchListItem, int64, error) {
	where, args := batchListWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*)` + batchListFrom + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}

	pos := len(args) + 1
	query := `SELECT ` + batchListColumns + batchListFrom + where +
		batchListOrder(sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var list []*repository.BatchListItem
	for rows.Next() {
		var it repository.BatchListItem
		var supplierID *string
		if err := rows.Scan(
			&it.ID, &it.ProductID, &it.UnitID, &it.BatchCode, &it.ExpiryDate,
			&it.InitialQuantity, &it.RemainingQuantity, &it.BuyPrice, &supplierID,
			&it.CreatedAt, &it.UpdatedAt,
			&it.ProductName, &it.ProductCode, &it.CategoryID, &it.CategoryName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan batch row: %w", err)
		}
		if supplierID != nil {
			it.SupplierID = *supplierID
		}
		list = append(list, &it)
	}
	return list, total, rows.Err()
}

// ListForSummary devuelve los lotes coincidentes sin paginar (solo columnas
// del lote) para calcular el resumen con el clasificador.
func (r *BatchQueryRepo) ListForSummary(ctx context.Context, filter repository.BatchListFilter) ([]*entity.Batch, error) {
	where, args := batchListWhere(filter)
	query := `
		SELECT b.id, b.product_id, b.unit_id, b.batch_code, b.expiry_date,
		       b.initial_quantity, b.remaining_quantity, b.buy_price,
		       b.created_at, b.updated_at` + batchListFrom + where

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches for summary: %w", err)
	}
	defer rows.Close()

	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(
			&b.ID, &b.ProductID, &b.UnitID, &b.BatchCode, &b.ExpiryDate,
			&b.InitialQuantity, &b.RemainingQuantity, &b.BuyPrice,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// TotalValue devuelve SUM(remaining_quantity * buy_price) del conjunto
// filtrado, en la unidad mínima de moneda (NUMERIC -> decimal).
func (r *BatchQueryRepo) TotalValue(ctx context.Context, filter repository.BatchListFilter) (decimal.Decimal, error) {
	where, args := batchListWhere(filter)
	query := `SELECT COALESCE(SUM(b.remaining_quantity::numeric * b.buy_price::numeric), 0)` +
		batchListFrom + where

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total value: %w", err)
	}
	return total, nil
}
