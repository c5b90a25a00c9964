package ledger_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Lotes-api/internal/application/ledger"
	"github.com/jhoicas/Lotes-api/internal/domain"
	"github.com/jhoicas/Lotes-api/internal/domain/entity"
	"github.com/jhoicas/Lotes-api/internal/domain/repository"
)

// fakeQueryRepo aplica el filtro en memoria con la misma semántica que el SQL:
// AND entre filtros, rangos inclusivos, exclusión de vencidos/agotados según
// los toggles. Además captura el último filtro recibido para inspección.
type fakeQueryRepo struct {
	items      []*repository.BatchListItem
	lastFilter repository.BatchListFilter
	lastSort   repository.BatchSort
	lastLimit  int
	lastOffset int
}

func (r *fakeQueryRepo) matches(it *repository.BatchListItem, f repository.BatchListFilter) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(it.ProductName), s) &&
			!strings.Contains(strings.ToLower(it.BatchCode), s) {
			return false
		}
	}
	if f.CategoryID != "" && it.CategoryID != f.CategoryID {
		return false
	}
	if f.ExpiryDateStart != nil && it.ExpiryDate.Before(*f.ExpiryDateStart) {
		return false
	}
	if f.ExpiryDateEnd != nil && it.ExpiryDate.After(*f.ExpiryDateEnd) {
		return false
	}
	if f.MinRemainingQuantity != nil && it.RemainingQuantity < *f.MinRemainingQuantity {
		return false
	}
	if f.MaxRemainingQuantity != nil && it.RemainingQuantity > *f.MaxRemainingQuantity {
		return false
	}
	if !f.IncludeExpired && f.Now.After(it.ExpiryDate) {
		return false
	}
	if !f.IncludeOutOfStock && it.RemainingQuantity == 0 {
		return false
	}
	return true
}

func (r *fakeQueryRepo) List(_ context.Context, f repository.BatchListFilter, sort repository.BatchSort, limit, offset int) ([]*repository.BatchListItem, int64, error) {
	r.lastFilter, r.lastSort, r.lastLimit, r.lastOffset = f, sort, limit, offset
	var matched []*repository.BatchListItem
	for _, it := range r.items {
		if r.matches(it, f) {
			matched = append(matched, it)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeQueryRepo) ListForSummary(_ context.Context, f repository.BatchListFilter) ([]*entity.Batch, error) {
	r.lastFilter = f
	var out []*entity.Batch
	for _, it := range r.items {
		if r.matches(it, f) {
			b := it.Batch
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r *fakeQueryRepo) TotalValue(_ context.Context, f repository.BatchListFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range r.items {
		if r.matches(it, f) {
			total = total.Add(decimal.NewFromInt(it.RemainingQuantity * it.BuyPrice))
		}
	}
	return total, nil
}

type fakeReportGen struct {
	last *ledger.ReportData
}

func (g *fakeReportGen) GenerateBatchReport(_ context.Context, data *ledger.ReportData) ([]byte, error) {
	g.last = data
	return []byte("%PDF-1.4"), nil
}

func listItem(code string, remaining int64, expiry time.Time) *repository.BatchListItem {
	return &repository.BatchListItem{
		Batch: entity.Batch{
			ID:                "b-" + code,
			ProductID:         "p-1",
			BatchCode:         code,
			ExpiryDate:        expiry,
			InitialQuantity:   remaining,
			RemainingQuantity: remaining,
			BuyPrice:          100,
		},
		ProductName:  "Amoxicilina 500mg",
		ProductCode:  "AMX-500",
		CategoryID:   "c-1",
		CategoryName: "Antibióticos",
	}
}

func boolPtr(b bool) *bool    { return &b }
func i64Ptr(v int64) *int64   { return &v }
func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
	return &t
}

func TestListBatches_PaginacionPorDefecto(t *testing.T) {
	repo := &fakeQueryRepo{}
	uc := ledger.NewBatchQueryUseCase(repo, nil, 0)

	page, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
	assert.Equal(t, repository.SortByCreatedAt, repo.lastSort.Field)
}

func TestListBatches_PaginaNegativaRechazada(t *testing.T) {
	uc := ledger.NewBatchQueryUseCase(&fakeQueryRepo{}, nil, 0)

	_, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{Page: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListBatches(context.Background(), ledger.ListBatchesInput{PageSize: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBatches_OrdenListaBlanca(t *testing.T) {
	repo := &fakeQueryRepo{}
	uc := ledger.NewBatchQueryUseCase(repo, nil, 0)

	// Campo fuera de la lista blanca: se rechaza, no se ignora.
	_, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{SortField: "buy_price; DROP TABLE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListBatches(context.Background(), ledger.ListBatchesInput{SortField: "expiry_date", SortDirection: "desc"})
	require.NoError(t, err)
	assert.Equal(t, repository.SortByExpiryDate, repo.lastSort.Field)
	assert.True(t, repo.lastSort.Descending)

	_, err = uc.ListBatches(context.Background(), ledger.ListBatchesInput{SortDirection: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBatches_FechasAlineadasAlDia(t *testing.T) {
	repo := &fakeQueryRepo{}
	uc := ledger.NewBatchQueryUseCase(repo, nil, 0)

	_, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{
		ExpiryDateStart: datePtr(2026, time.March, 10),
		ExpiryDateEnd:   datePtr(2026, time.March, 20),
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.ExpiryDateStart)
	require.NotNil(t, repo.lastFilter.ExpiryDateEnd)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), *repo.lastFilter.ExpiryDateStart)
	assert.Equal(t, time.Date(2026, time.March, 20, 23, 59, 59, 0, time.UTC), *repo.lastFilter.ExpiryDateEnd)
}

func TestListBatches_RangoDeFechasInvertido(t *testing.T) {
	uc := ledger.NewBatchQueryUseCase(&fakeQueryRepo{}, nil, 0)

	_, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{
		ExpiryDateStart: datePtr(2026, time.March, 20),
		ExpiryDateEnd:   datePtr(2026, time.March, 10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBatches_RangoDeCantidadInvalido(t *testing.T) {
	uc := ledger.NewBatchQueryUseCase(&fakeQueryRepo{}, nil, 0)

	_, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{MinRemainingQuantity: i64Ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ListBatches(context.Background(), ledger.ListBatchesInput{
		MinRemainingQuantity: i64Ptr(10),
		MaxRemainingQuantity: i64Ptr(5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// excludeExpired reduce el conjunto y el total refleja el subconjunto filtrado.
func TestListBatches_ExcluirVencidosAfectaElTotal(t *testing.T) {
	now := time.Now()
	repo := &fakeQueryRepo{items: []*repository.BatchListItem{
		listItem("L-001", 10, now.AddDate(0, 6, 0)),
		listItem("L-002", 5, now.AddDate(0, 0, -10)), // vencido
		listItem("L-003", 0, now.AddDate(0, 6, 0)),   // agotado
	}}
	uc := ledger.NewBatchQueryUseCase(repo, nil, 0)
	ctx := context.Background()

	all, err := uc.ListBatches(ctx, ledger.ListBatchesInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total, "por defecto se incluyen vencidos y agotados")

	noExpired, err := uc.ListBatches(ctx, ledger.ListBatchesInput{IncludeExpired: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), noExpired.Total)
	for _, row := range noExpired.Items {
		assert.False(t, row.Expired)
	}

	inStock, err := uc.ListBatches(ctx, ledger.ListBatchesInput{IncludeOutOfStock: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), inStock.Total)
	for _, row := range inStock.Items {
		assert.False(t, row.OutOfStock)
	}
}

func TestListBatches_FlagsDelClasificador(t *testing.T) {
	now := time.Now()
	repo := &fakeQueryRepo{items: []*repository.BatchListItem{
		listItem("L-PRONTO", 10, now.AddDate(0, 0, 15)), // dentro del horizonte de 30 días
		listItem("L-LEJOS", 10, now.AddDate(0, 6, 0)),
	}}
	uc := ledger.NewBatchQueryUseCase(repo, nil, 0)

	page, err := uc.ListBatches(context.Background(), ledger.ListBatchesInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	byCode := map[string]*ledger.BatchRow{}
	for _, row := range page.Items {
		byCode[row.BatchCode] = row
	}
	assert.True(t, byCode["L-PRONTO"].ExpiringSoon)
	assert.False(t, byCode["L-LEJOS"].ExpiringSoon)
}

func TestGetSummary_ConteosSobreElConjuntoFiltrado(t *testing.T) {
	now := time.Now()
	repo := &fakeQueryRepo{items: []*repository.BatchListItem{
		listItem("L-001", 10, now.AddDate(0, 6, 0)),
		listItem("L-002", 0, now.AddDate(0, 6, 0)),
		listItem("L-003", 3, now.AddDate(0, 0, -1)),
		listItem("L-004", 7, now.AddDate(0, 0, 10)),
	}}
	uc := ledger.NewBatchQueryUseCase(repo, nil, 30)

	sum, err := uc.GetSummary(context.Background(), ledger.ListBatchesInput{})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 3, sum.InStock)
	assert.Equal(t, 1, sum.OutOfStock)
	assert.Equal(t, 1, sum.Expired)
	assert.Equal(t, 1, sum.ExpiringSoon)
	assert.Equal(t, sum.Total, sum.InStock+sum.OutOfStock)
}

func TestGenerateReport_DatosCompletos(t *testing.T) {
	now := time.Now()
	repo := &fakeQueryRepo{items: []*repository.BatchListItem{
		listItem("L-001", 10, now.AddDate(0, 6, 0)), // 10 * 100
		listItem("L-002", 4, now.AddDate(0, 6, 0)),  // 4 * 100
	}}
	gen := &fakeReportGen{}
	uc := ledger.NewBatchQueryUseCase(repo, gen, 0)

	pdf, err := uc.GenerateReport(context.Background(), ledger.ListBatchesInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	require.NotNil(t, gen.last)
	assert.Len(t, gen.last.Items, 2)
	assert.Equal(t, 2, gen.last.Summary.Total)
	assert.True(t, gen.last.TotalValue.Equal(decimal.NewFromInt(1400)))
}
