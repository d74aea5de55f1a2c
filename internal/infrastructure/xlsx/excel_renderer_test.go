package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/report"
	"github.com/jhoicas/Estoque-api/internal/infrastructure/xlsx"
)

func TestRenderInventory(t *testing.T) {
	out, err := xlsx.NewExcelRenderer().RenderInventory(context.Background(), &report.InventoryReport{
		GeneratedAt: time.Now(),
		Rows: []dto.InventoryReportRow{
			{Code: "A1", Name: "Tornillo", Balance: 8, Price: "1.50", Total: "12.00"},
			{Code: "B2", Name: "Tuerca", Balance: 0, Price: "0.30", Total: "0.00"},
		},
		Total: "12.00",
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Inventario")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"Código", "Nombre", "Saldo", "Precio", "Total"}, rows[0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "8", rows[1][2])

	total, err := f.GetCellValue("Inventario", "E5")
	require.NoError(t, err)
	assert.Equal(t, "12", total)
}

func TestRenderMovements(t *testing.T) {
	out, err := xlsx.NewExcelRenderer().RenderMovements(context.Background(), []dto.MovementResponse{
		{CreatedAt: time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC), Kind: "Saida", ProductCode: "A1",
			ProductName: "Tornillo", Quantity: 2, Reason: "venta", UserName: "Ana"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Movimientos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-03-02 08:30:00", "Saida", "A1", "Tornillo", "2", "venta", "Ana"}, rows[1])
}
