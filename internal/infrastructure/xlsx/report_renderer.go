// Package xlsx exporta los relatórios como planilla Excel.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	appreport "github.com/jhoicas/gesafe-api/internal/application/report"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/report"
)

var _ appreport.Renderer = (*ReportRenderer)(nil)

// SheetName nombre de la única hoja del libro.
const SheetName = "Relatorio"

type column struct {
	label string
	width float64
	value func(r report.Row) any
}

// ReportRenderer implementa report.Renderer con excelize.
type ReportRenderer struct{}

// NewReportRenderer construye el renderizador.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// ContentType tipo MIME de la planilla.
func (ReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension extensión del archivo.
func (ReportRenderer) Extension() string { return "xlsx" }

// Render arma una sección por propriedade: nombre, cabecera y filas.
func (ReportRenderer) Render(r *report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	cols := columnsFor(r.Kind)
	w := &sheetWriter{f: f}
	w.set(1, 1, r.Title())
	w.style(1, 1, 1, title)
	w.set(1, 2, "Gerado em "+r.GeneratedAt.Format("02/01/2006 15:04"))

	rowNo := 4
	for _, g := range r.Groups {
		w.set(1, rowNo, "PROPRIEDADE: "+g.Property)
		w.style(1, len(cols), rowNo, bold)
		rowNo++
		for i, c := range cols {
			w.set(i+1, rowNo, c.label)
		}
		w.style(1, len(cols), rowNo, bold)
		rowNo++
		for _, row := range g.Rows {
			for i, c := range cols {
				w.set(i+1, rowNo, c.value(row))
			}
			rowNo++
		}
		rowNo++
	}
	w.set(1, rowNo, fmt.Sprintf("Total de registros: %d", r.RowCount()))

	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		w.keep(f.SetColWidth(SheetName, name, name, c.width))
	}
	if w.err != nil {
		return nil, fmt.Errorf("xlsx: escribir celdas: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter guarda el primer error para no chequear cada celda.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) keep(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *sheetWriter) set(col, row int, v any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.keep(err)
		return
	}
	w.keep(w.f.SetCellValue(SheetName, cell, v))
}

func (w *sheetWriter) style(fromCol, toCol, row, styleID int) {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		w.keep(err)
		return
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		w.keep(err)
		return
	}
	w.keep(w.f.SetCellStyle(SheetName, from, to, styleID))
}

func columnsFor(k report.Kind) []column {
	product := column{"Produto", 28, func(r report.Row) any { return r.Product }}
	pack := column{"Embalagem", 18, func(r report.Row) any { return r.Packaging.Label() }}
	validity := column{"Validade", 12, func(r report.Row) any { return expiry.Format(r.Expiry) }}
	qty := column{"Quantidade", 12, func(r report.Row) any { return r.Quantity }}
	status := column{"Status", 12, func(r report.Row) any { return r.Status.Label() }}

	switch k {
	case report.KindMovements:
		return []column{
			{"Data", 18, func(r report.Row) any { return r.Date.Format("02/01/2006 15:04") }},
			product,
			{"Tipo", 14, func(r report.Row) any { return string(r.MovementKind) }},
			pack, validity, qty,
			{"Justificativa", 40, func(r report.Row) any { return r.Justification }},
		}
	case report.KindExpirations:
		return []column{product, pack, validity, qty, status}
	default:
		return []column{
			product, pack, validity, qty,
			{"Valor unitário", 14, func(r report.Row) any { return money(r.UnitValue) }},
			{"Valor total", 14, func(r report.Row) any { return money(r.TotalValue) }},
			status,
		}
	}
}
