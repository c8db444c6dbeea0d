// Package pdf renderiza los relatórios de estoque con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título del relatório  │  fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROPRIEDADE: nombre                                        │
//	│  TABLA: columnas según el tipo de relatório                 │
//	│  ...una sección por propriedade...                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de registros                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	appreport "github.com/jhoicas/gesafe-api/internal/application/report"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/report"
)

var _ appreport.Renderer = (*ReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 94, Blue: 48}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// column define una columna de la tabla: título, ancho en la grilla de 12 y valor.
type column struct {
	label string
	size  int
	align align.Type
	value func(r report.Row) string
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReportRenderer implementa report.Renderer con Maroto v2.
type ReportRenderer struct {
	author string
}

// NewReportRenderer construye el renderizador. author aparece en los metadatos del PDF.
func NewReportRenderer(author string) *ReportRenderer { return &ReportRenderer{author: author} }

// ContentType tipo MIME del documento.
func (g *ReportRenderer) ContentType() string { return "application/pdf" }

// Extension extensión del archivo.
func (g *ReportRenderer) Extension() string { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *ReportRenderer) Render(r *report.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title(), true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	cols := columnsFor(r.Kind)
	if len(r.Groups) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Nenhum registro encontrado para os filtros selecionados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 4,
			}),
		)))
	}
	for _, grp := range r.Groups {
		m.AddRows(propertyRow(grp))
		m.AddRows(tableHeaderRow(cols))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
		for _, rr := range grp.Rows {
			m.AddRows(tableRow(cols, rr))
		}
		m.AddRows(line.NewRow(4))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *report.Report) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(r.Title(), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
			text.New("GESAFE - Gestão de estoque de insumos", props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em", props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

func propertyRow(g report.Group) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New("PROPRIEDADE: "+g.Property, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3,
		}),
	))
}

func tableHeaderRow(cols []column) core.Row {
	cs := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cs = append(cs, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cs...)
}

func tableRow(cols []column, r report.Row) core.Row {
	cs := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		p := props.Text{Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1}
		if c.label == "Status" && r.Status == expiry.Vencido {
			p.Color = colorDanger
			p.Style = fontstyle.Bold
		}
		cs = append(cs, col.New(c.size).Add(text.New(c.value(r), p)))
	}
	return row.New(6).Add(cs...)
}

func footerRow(r *report.Report) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total de registros: %d", r.RowCount()), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 2,
		}),
	))
}

// columnsFor columnas de la tabla para cada tipo de relatório.
func columnsFor(k report.Kind) []column {
	product := column{"Produto", 3, align.Left, func(r report.Row) string { return r.Product }}
	pack := column{"Embalagem", 2, align.Left, func(r report.Row) string { return r.Packaging.Label() }}
	validity := column{"Validade", 2, align.Center, func(r report.Row) string { return expiry.Format(r.Expiry) }}
	qty := column{"Qtd.", 1, align.Right, func(r report.Row) string { return fmt.Sprintf("%d", r.Quantity) }}
	status := column{"Status", 2, align.Center, func(r report.Row) string { return r.Status.Label() }}

	switch k {
	case report.KindMovements:
		return []column{
			{"Data", 2, align.Left, func(r report.Row) string { return r.Date.Format("02/01/2006 15:04") }},
			product,
			{"Tipo", 2, align.Left, func(r report.Row) string { return string(r.MovementKind) }},
			pack,
			qty,
			{"Justificativa", 2, align.Left, func(r report.Row) string { return r.Justification }},
		}
	case report.KindExpirations:
		product.size = 4
		status.size = 3
		return []column{product, pack, validity, qty, status}
	default:
		return []column{
			product, pack, validity, qty,
			{"Valor total", 2, align.Right, func(r report.Row) string { return formatMoney(r.TotalValue) }},
			status,
		}
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney formato monetario brasileño: "R$ 1.234,50"; sin valor, "-".
func formatMoney(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := "R$ " + string(buf) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
