package dto

import (
	"time"

	"github.com/jhoicas/Lotes-api/internal/application/ledger"
	"github.com/jhoicas/Lotes-api/internal/domain/entity"
)

// CreateBatchRequest entrada para crear un lote. Las fechas van como
// "2006-01-02" o RFC3339.
type CreateBatchRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	BatchCode       string `json:"batch_code" validate:"required,min=1,max=100"`
	ExpiryDate      string `json:"expiry_date" validate:"required"`
	InitialQuantity int64  `json:"initial_quantity" validate:"required,gt=0"`
	BuyPrice        int64  `json:"buy_price" validate:"min=0"` // unidad mínima de moneda
	UnitID          string `json:"unit_id" validate:"required"`
	SupplierID      string `json:"supplier_id"`
}

// StockInRequest entrada de stock sobre un lote existente.
type StockInRequest struct {
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	UnitID     string `json:"unit_id" validate:"required"`
	Date       string `json:"date"`
	SupplierID string `json:"supplier_id"`
}

// StockOutRequest salida de stock. Exactamente uno de reason o transaction_id.
type StockOutRequest struct {
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
	UnitID        string `json:"unit_id" validate:"required"`
	Date          string `json:"date"`
	Reason        string `json:"reason"`
	TransactionID string `json:"transaction_id"`
}

// AdjustRequest ajuste con delta con signo: positivo entra, negativo sale.
type AdjustRequest struct {
	Delta  int64  `json:"delta" validate:"required"`
	Reason string `json:"reason"`
	UnitID string `json:"unit_id" validate:"required"`
}

// ListBatchesQuery parámetros de listado de lotes (query string).
type ListBatchesQuery struct {
	Page              int    `query:"page"`
	PageSize          int    `query:"page_size"`
	SortBy            string `query:"sort_by"`   // created_at | expiry_date | remaining_quantity | buy_price
	SortDir           string `query:"sort_dir"`  // asc | desc
	Search            string `query:"search"`
	CategoryID        string `query:"category_id"`
	ExpiryDateStart   string `query:"expiry_date_start"` // 2006-01-02
	ExpiryDateEnd     string `query:"expiry_date_end"`   // 2006-01-02
	MinRemaining      *int64 `query:"min_remaining"`
	MaxRemaining      *int64 `query:"max_remaining"`
	IncludeExpired    *bool  `query:"include_expired"`      // default true
	IncludeOutOfStock *bool  `query:"include_out_of_stock"` // default true
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	UnitID            string    `json:"unit_id"`
	BatchCode         string    `json:"batch_code"`
	ExpiryDate        time.Time `json:"expiry_date"`
	InitialQuantity   int64     `json:"initial_quantity"`
	RemainingQuantity int64     `json:"remaining_quantity"`
	BuyPrice          int64     `json:"buy_price"`
	SupplierID        string    `json:"supplier_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// MovementResponse salida de un movimiento de lote.
type MovementResponse struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	UnitID        string    `json:"unit_id"`
	Date          time.Time `json:"date"`
	SupplierID    string    `json:"supplier_id,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// BatchDetailResponse lote con su historial completo de movimientos y los
// consumos por venta.
type BatchDetailResponse struct {
	Batch        BatchResponse      `json:"batch"`
	Movements    []MovementResponse `json:"movements"`
	Consumptions []MovementResponse `json:"consumptions"`
}

// MovementResultResponse resultado de registrar un movimiento: el movimiento
// persistido y el lote con la proyección ya actualizada.
type MovementResultResponse struct {
	Movement MovementResponse `json:"movement"`
	Batch    BatchResponse    `json:"batch"`
}

// BatchRowResponse fila del listado con nombres denormalizados y los flags
// del clasificador.
type BatchRowResponse struct {
	BatchResponse
	ProductName  string `json:"product_name"`
	ProductCode  string `json:"product_code"`
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Expired      bool   `json:"expired"`
	OutOfStock   bool   `json:"out_of_stock"`
	ExpiringSoon bool   `json:"expiring_soon"`
}

// BatchListResponse página de lotes más el total del conjunto filtrado.
type BatchListResponse struct {
	Items    []BatchRowResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// BatchSummaryResponse conteos agregados del conjunto filtrado.
type BatchSummaryResponse struct {
	Total        int `json:"total"`
	InStock      int `json:"in_stock"`
	OutOfStock   int `json:"out_of_stock"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiring_soon"`
}

// CanDeleteResponse elegibilidad de borrado de un lote.
type CanDeleteResponse struct {
	CanDelete bool `json:"can_delete"`
}

// NewBatchResponse mapea la entidad a su DTO.
func NewBatchResponse(b *entity.Batch) BatchResponse {
	return BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		UnitID:            b.UnitID,
		BatchCode:         b.BatchCode,
		ExpiryDate:        b.ExpiryDate,
		InitialQuantity:   b.InitialQuantity,
		RemainingQuantity: b.RemainingQuantity,
		BuyPrice:          b.BuyPrice,
		SupplierID:        b.SupplierID,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// NewMovementResponse mapea la entidad a su DTO.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		BatchID:       m.BatchID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitID:        m.UnitID,
		Date:          m.Date,
		SupplierID:    m.SupplierID,
		Reason:        m.Reason,
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
	}
}

// NewMovementResponses mapea una lista de movimientos.
func NewMovementResponses(movs []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, NewMovementResponse(m))
	}
	return out
}

// NewBatchRowResponse mapea una fila del listado con sus flags.
func NewBatchRowResponse(row *ledger.BatchRow) BatchRowResponse {
	return BatchRowResponse{
		BatchResponse: NewBatchResponse(&row.Batch),
		ProductName:   row.ProductName,
		ProductCode:   row.ProductCode,
		CategoryID:    row.CategoryID,
		CategoryName:  row.CategoryName,
		Expired:       row.Expired,
		OutOfStock:    row.OutOfStock,
		ExpiringSoon:  row.ExpiringSoon,
	}
}
