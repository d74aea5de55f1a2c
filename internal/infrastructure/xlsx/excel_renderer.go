// Package xlsx exporta reportes a hojas de cálculo con excelize.
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/report"
)

// ContentType MIME de los archivos generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	_ report.InventoryRenderer = (*ExcelRenderer)(nil)
	_ report.MovementsRenderer = (*ExcelRenderer)(nil)
)

// ExcelRenderer genera los reportes de inventario y movimientos en XLSX.
type ExcelRenderer struct{}

// NewExcelRenderer construye el renderer.
func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

// RenderInventory una hoja "Inventario" con una fila por producto y el total al final.
func (r *ExcelRenderer) RenderInventory(_ context.Context, rep *report.InventoryReport) ([]byte, error) {
	const sheet = "Inventario"
	f, err := newBook(sheet, []string{"Código", "Nombre", "Saldo", "Precio", "Total"})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, row := range rep.Rows {
		values := []any{row.Code, row.Name, row.Balance, number(row.Price), number(row.Total)}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return nil, err
		}
	}
	totalRow := len(rep.Rows) + 3
	if err := writeRow(f, sheet, totalRow, []any{"", "", "", "TOTAL", number(rep.Total)}); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "B", "B", 40)
	return finish(f, sheet, "A1:E1")
}

// RenderMovements una hoja "Movimientos" en el orden recibido.
func (r *ExcelRenderer) RenderMovements(_ context.Context, rows []dto.MovementResponse) ([]byte, error) {
	const sheet = "Movimientos"
	f, err := newBook(sheet, []string{"Fecha", "Tipo", "Código", "Producto", "Cantidad", "Motivo", "Usuario"})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, m := range rows {
		values := []any{
			m.CreatedAt.Format("2006-01-02 15:04:05"), m.Kind, m.ProductCode, m.ProductName,
			m.Quantity, m.Reason, m.UserName,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "D", "D", 40)
	_ = f.SetColWidth(sheet, "F", "F", 40)
	return finish(f, sheet, "A1:G1")
}

// newBook libro con una hoja renombrada y la cabecera en negrita.
func newBook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("xlsx: escribir %s: %w", cell, err)
		}
	}
	return nil
}

func finish(f *excelize.File, sheet, headerRange string) ([]byte, error) {
	_ = f.AutoFilter(sheet, headerRange, []excelize.AutoFilterOptions{})
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// number convierte el texto decimal en float para que la celda sea numérica.
func number(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	f, _ := d.Float64()
	return f
}
