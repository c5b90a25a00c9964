package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Lotes-api/internal/domain"
	batchdom "github.com/jhoicas/Lotes-api/internal/domain/batch"
	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

// BatchQueryUseCase motor de listados: listado paginado/filtrado/ordenado de
// lotes, resumen agregado y reporte exportable. Solo lectura; la consistencia
// eventual frente a escrituras concurrentes es aceptable aquí.
type BatchQueryUseCase struct {
	queryRepo   repository.BatchQueryRepository
	reportGen   BatchReportGenerator
	horizonDays int
}

// NewBatchQueryUseCase construye el caso de uso. horizonDays <= 0 usa el default.
func NewBatchQueryUseCase(queryRepo repository.BatchQueryRepository, reportGen BatchReportGenerator, horizonDays int) *BatchQueryUseCase {
	if horizonDays <= 0 {
		horizonDays = batchdom.DefaultExpiringHorizonDays
	}
	return &BatchQueryUseCase{queryRepo: queryRepo, reportGen: reportGen, horizonDays: horizonDays}
}

// ListBatchesInput filtros/orden/página del listado. Es un filtro cerrado:
// un campo de orden fuera de la lista blanca se rechaza, no se ignora.
type ListBatchesInput struct {
	Page          int    // >= 1; 0 = primera página
	PageSize      int    // > 0; 0 = default 20, máximo 100
	SortField     string // created_at | expiry_date | remaining_quantity | buy_price
	SortDirection string // asc | desc

	Search               string
	CategoryID           string
	ExpiryDateStart      *time.Time // se alinea al inicio del día (00:00:00)
	ExpiryDateEnd        *time.Time // se alinea al fin del día (23:59:59)
	MinRemainingQuantity *int64
	MaxRemainingQuantity *int64
	IncludeExpired       *bool // nil = true
	IncludeOutOfStock    *bool // nil = true
}

// BatchRow fila del listado con los flags del clasificador ya calculados.
type BatchRow struct {
	*repository.BatchListItem
	Expired      bool
	OutOfStock   bool
	ExpiringSoon bool
}

// BatchPage página de resultados más el total de filas del conjunto filtrado.
type BatchPage struct {
	Items    []*BatchRow
	Total    int64
	Page     int
	PageSize int
}

// ReportData datos del reporte exportable de lotes.
type ReportData struct {
	GeneratedAt time.Time
	Items       []*BatchRow
	Summary     batchdom.Summary
	TotalValue  decimal.Decimal // SUM(restante * precio de compra), en centavos
}

// ListBatches devuelve la página de lotes que cumplen los filtros y el total
// de coincidencias (calculado sobre el conjunto filtrado, no la tabla entera).
func (uc *BatchQueryUseCase) ListBatches(ctx context.Context, in ListBatchesInput) (*BatchPage, error) {
	page, pageSize, err := normalizePage(in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}
	sort, err := normalizeSort(in.SortField, in.SortDirection)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	filter, err := buildFilter(in, now)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	items, total, err := uc.queryRepo.List(ctx, filter, sort, pageSize, offset)
	if err != nil {
		return nil, err
	}

	rows := make([]*BatchRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, uc.toRow(it, now))
	}
	return &BatchPage{Items: rows, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetSummary calcula los conteos agregados {total, con stock, agotados,
// vencidos, próximos a vencer} sobre el conjunto filtrado, aplicando el
// clasificador puro a la proyección actual.
func (uc *BatchQueryUseCase) GetSummary(ctx context.Context, in ListBatchesInput) (batchdom.Summary, error) {
	now := time.Now()
	filter, err := buildFilter(in, now)
	if err != nil {
		return batchdom.Summary{}, err
	}
	batches, err := uc.queryRepo.ListForSummary(ctx, filter)
	if err != nil {
		return batchdom.Summary{}, err
	}
	return batchdom.Summarize(batches, now, uc.horizonDays), nil
}

// GenerateReport arma el reporte de lotes (conjunto filtrado completo, resumen
// y valor total a precio de compra) y lo exporta con el generador configurado.
func (uc *BatchQueryUseCase) GenerateReport(ctx context.Context, in ListBatchesInput) ([]byte, error) {
	if uc.reportGen == nil {
		return nil, domain.ErrInvalidInput
	}
	sort, err := normalizeSort(in.SortField, in.SortDirection)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	filter, err := buildFilter(in, now)
	if err != nil {
		return nil, err
	}

	// El reporte no pagina: exporta el conjunto filtrado completo (acotado).
	items, _, err := uc.queryRepo.List(ctx, filter, sort, maxReportRows, 0)
	if err != nil {
		return nil, err
	}
	batches, err := uc.queryRepo.ListForSummary(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalValue, err := uc.queryRepo.TotalValue(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]*BatchRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, uc.toRow(it, now))
	}
	data := &ReportData{
		GeneratedAt: now,
		Items:       rows,
		Summary:     batchdom.Summarize(batches, now, uc.horizonDays),
		TotalValue:  totalValue,
	}
	return uc.reportGen.GenerateBatchReport(ctx, data)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxReportRows   = 1000
)

func (uc *BatchQueryUseCase) toRow(it *repository.BatchListItem, now time.Time) *BatchRow {
	return &BatchRow{
		BatchListItem: it,
		Expired:       batchdom.IsExpired(&it.Batch, now),
		OutOfStock:    batchdom.IsOutOfStock(&it.Batch),
		ExpiringSoon:  batchdom.IsExpiringSoon(&it.Batch, now, uc.horizonDays),
	}
}

func normalizePage(page, pageSize int) (int, int, error) {
	if page < 0 || pageSize < 0 {
		return 0, 0, domain.ErrInvalidInput
	}
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, nil
}

func normalizeSort(field, direction string) (repository.BatchSort, error) {
	switch field {
	case "":
		field = repository.SortByCreatedAt
	case repository.SortByCreatedAt, repository.SortByExpiryDate,
		repository.SortByRemainingQuantity, repository.SortByBuyPrice:
	default:
		return repository.BatchSort{}, domain.ErrInvalidInput
	}
	var desc bool
	switch direction {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return repository.BatchSort{}, domain.ErrInvalidInput
	}
	return repository.BatchSort{Field: field, Descending: desc}, nil
}

// buildFilter traduce la entrada al filtro cerrado del repositorio, alineando
// los límites de fecha al día calendario: inicio 00:00:00, fin 23:59:59.
func buildFilter(in ListBatchesInput, now time.Time) (repository.BatchListFilter, error) {
	if in.MinRemainingQuantity != nil && *in.MinRemainingQuantity < 0 {
		return repository.BatchListFilter{}, domain.ErrInvalidInput
	}
	if in.MinRemainingQuantity != nil && in.MaxRemainingQuantity != nil &&
		*in.MaxRemainingQuantity < *in.MinRemainingQuantity {
		return repository.BatchListFilter{}, domain.ErrInvalidInput
	}

	f := repository.BatchListFilter{
		Search:               in.Search,
		CategoryID:           in.CategoryID,
		MinRemainingQuantity: in.MinRemainingQuantity,
		MaxRemainingQuantity: in.MaxRemainingQuantity,
		IncludeExpired:       true,
		IncludeOutOfStock:    true,
		Now:                  now,
	}
	if in.IncludeExpired != nil {
		f.IncludeExpired = *in.IncludeExpired
	}
	if in.IncludeOutOfStock != nil {
		f.IncludeOutOfStock = *in.IncludeOutOfStock
	}
	if in.ExpiryDateStart != nil {
		start := dayStart(*in.ExpiryDateStart)
		f.ExpiryDateStart = &start
	}
	if in.ExpiryDateEnd != nil {
		end := dayEnd(*in.ExpiryDateEnd)
		f.ExpiryDateEnd = &end
	}
	if f.ExpiryDateStart != nil && f.ExpiryDateEnd != nil && f.ExpiryDateEnd.Before(*f.ExpiryDateStart) {
		return repository.BatchListFilter{}, domain.ErrInvalidInput
	}
	return f, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
