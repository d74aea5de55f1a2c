// Package pdf genera los documentos PDF del sistema con Maroto v2.
//
// Inventario valorizado (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Nombre | Saldo | Precio | Total             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL GENERAL                                              │
//	└─────────────────────────────────────────────────────────────┘
//
// Etiquetas: grilla de 3 columnas con nombre, Code128 y precio.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const labelsPerRow = 3

// ── Generator ─────────────────────────────────────────────────────────────────

var (
	_ report.InventoryRenderer = (*MarotoPDFGenerator)(nil)
	_ report.LabelRenderer     = (*MarotoPDFGenerator)(nil)
)

// MarotoPDFGenerator implementa report.InventoryRenderer y report.LabelRenderer.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador; appName aparece como autor del documento.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.appName, true).
		Build()
	return maroto.New(cfg)
}

// RenderInventory genera el PDF del inventario valorizado.
func (g *MarotoPDFGenerator) RenderInventory(_ context.Context, rep *report.InventoryReport) ([]byte, error) {
	m := g.newDocument("Inventario valorizado")

	m.AddRows(inventoryHeaderRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(rep.Rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(rep.Total))

	return generate(m)
}

// RenderLabels genera la hoja de etiquetas con código de barras Code128.
func (g *MarotoPDFGenerator) RenderLabels(_ context.Context, labels []report.Label) ([]byte, error) {
	m := g.newDocument("Etiquetas")
	for start := 0; start < len(labels); start += labelsPerRow {
		end := min(start+labelsPerRow, len(labels))
		cols := make([]core.Col, 0, labelsPerRow)
		for _, l := range labels[start:end] {
			cols = append(cols, labelCol(l))
		}
		// Completar la fila para que las etiquetas mantengan el mismo ancho
		for len(cols) < labelsPerRow {
			cols = append(cols, col.New(12/labelsPerRow))
		}
		m.AddRows(row.New(40).Add(cols...))
		m.AddRows(row.New(4))
	}
	return generate(m)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func inventoryHeaderRow(rep *report.InventoryReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("INVENTARIO VALORIZADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d productos", len(rep.Rows)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Nombre", 5, align.Left),
		h("Saldo", 1, align.Right),
		h("Precio", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(rows []dto.InventoryReportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(r.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(r.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", r.Balance), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(r.Price, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(r.Total, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(total string) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// labelCol una etiqueta: nombre arriba, barras en el centro, código y precio abajo.
func labelCol(l report.Label) core.Col {
	return col.New(12/labelsPerRow).Add(
		text.New(truncate(l.Name, 34), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1}),
		code.NewBar(l.Code, props.Barcode{Percent: 70, Center: true, Top: 5}),
		text.New(l.Code+"   $"+l.Price, props.Text{Size: 8, Align: align.Center, Top: 33}),
	).WithStyle(&props.Cell{BorderType: border.Full, BorderColor: colorGray, BorderThickness: 0.2})
}

// truncate corta s a n runas añadiendo "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
