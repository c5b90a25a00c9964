// Package pdf implementa la exportación del reporte de lotes usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total | Con stock | Agotados | Vencidos | Próx.   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Vence | Restante | Estado | $   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: Valor a precio de compra del conjunto filtrado      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Lotes-api/internal/application/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarning = &props.Color{Red: 190, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Ensure MarotoReportGenerator implements ledger.BatchReportGenerator.
var _ ledger.BatchReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ledger.BatchReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateBatchReport genera el PDF del reporte de lotes y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateBatchReport(_ context.Context, data *ledger.ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Lotes", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(data.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data.TotalValue))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(data *ledger.ReportData) core.Row {
	fecha := data.GeneratedAt.Format("02/01/2006 15:04")
	return row.New(14).Add(
		col.New(8).Add(
			text.New("REPORTE DE LOTES", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario por lotes con vencimiento", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d lotes", len(data.Items)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

// summaryRow: conteos del clasificador sobre el conjunto filtrado.
func summaryRow(data *ledger.ReportData) core.Row {
	cell := func(label string, value int, color *props.Color) core.Col {
		return col.New(2).Add(
			text.New(fmt.Sprintf("%d", value), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 1, Color: color,
			}),
			text.New(label, props.Text{
				Size: 7, Align: align.Center, Top: 8, Color: colorGray,
			}),
		)
	}
	s := data.Summary
	return row.New(14).Add(
		col.New(1),
		cell("Total", s.Total, colorPrimary),
		cell("Con stock", s.InStock, colorPrimary),
		cell("Agotados", s.OutOfStock, colorGray),
		cell("Vencidos", s.Expired, colorDanger),
		cell("Por vencer", s.ExpiringSoon, colorWarning),
		col.New(1),
	)
}

// tableHeaderRow: cabecera de la tabla de lotes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Vence", 2, align.Center),
		h("Restante", 1, align.Right),
		h("Estado", 1, align.Center),
		h("Valor", 2, align.Right),
	)
}

// tableRows: una fila por lote.
func tableRows(items []*ledger.BatchRow) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		value := decimal.NewFromInt(it.RemainingQuantity * it.BuyPrice).Shift(-2)
		status, statusColor := statusOf(it)
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.BatchCode,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.ExpiryDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d/%d", it.RemainingQuantity, it.InitialQuantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				status,
				props.Text{Size: 7, Align: align.Center, Top: 1, Color: statusColor},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(value.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: valor total del conjunto filtrado a precio de compra.
func totalRow(totalValue decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(totalValue.Shift(-2).StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusOf(it *ledger.BatchRow) (string, *props.Color) {
	switch {
	case it.Expired:
		return "VENCIDO", colorDanger
	case it.OutOfStock:
		return "AGOTADO", colorGray
	case it.ExpiringSoon:
		return "POR VENCER", colorWarning
	default:
		return "OK", colorGray
	}
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
