package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Lotes-api/internal/domain/entity"
)

// Campos de ordenamiento aceptados por el listado de lotes.
const (
	SortByCreatedAt         = "created_at"
	SortByExpiryDate        = "expiry_date"
	SortByRemainingQuantity = "remaining_quantity"
	SortByBuyPrice          = "buy_price"
)

// BatchListFilter filtro cerrado para el listado de lotes. Los filtros se
// componen con AND; un límite ausente (nil/vacío) no impone restricción.
// Los rangos son inclusivos y las fechas ya vienen alineadas al día
// (inicio 00:00:00, fin 23:59:59).
type BatchListFilter struct {
	Search               string // substring case-insensitive sobre nombre de producto o código de lote
	CategoryID           string
	ExpiryDateStart      *time.Time
	ExpiryDateEnd        *time.Time
	MinRemainingQuantity *int64
	MaxRemainingQuantity *int64
	IncludeExpired       bool
	IncludeOutOfStock    bool
	// Now es el instante de referencia para excluir vencidos cuando
	// IncludeExpired es false.
	Now time.Time
}

// BatchSort ordenamiento validado en la frontera (campo de la lista blanca).
type BatchSort struct {
	Field      string
	Descending bool
}

// BatchListItem fila del listado: el lote más los nombres denormalizados de
// producto y categoría para presentación.
type BatchListItem struct {
	entity.Batch
	ProductName  string
	ProductCode  string
	CategoryID   string
	CategoryName string
}

// BatchQueryRepository consultas de solo lectura sobre lotes (motor de listados).
type BatchQueryRepository interface {
	// List devuelve la página de lotes que cumplen el filtro y el total de
	// filas coincidentes (sobre el conjunto filtrado, no la tabla completa).
	List(ctx context.Context, filter BatchListFilter, sort BatchSort, limit, offset int) ([]*BatchListItem, int64, error)
	// ListForSummary devuelve los lotes coincidentes (solo columnas del lote,
	// sin paginar) para calcular el resumen con el clasificador puro.
	ListForSummary(ctx context.Context, filter BatchListFilter) ([]*entity.Batch, error)
	// TotalValue devuelve SUM(remaining_quantity * buy_price) del conjunto
	// filtrado, en la unidad mínima de moneda (NUMERIC -> decimal).
	TotalValue(ctx context.Context, filter BatchListFilter) (decimal.Decimal, error)
}
