package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

var sample = []entity.Proposal{{
	SellerName:        "Carla",
	ClientName:        "Silva, João",
	SystemPowerKwp:    4.55,
	TotalValue:        11136,
	MonthlyGeneration: 600,
	MonthlySavings:    762,
	CreatedAt:         time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC),
}}

func TestWriteCSVHeaderOrderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Data,Vendedor,Cliente,Potência (kWp),Valor Total (R$),Geração Mensal (kWh),Economia Mensal (R$)", lines[0])
	assert.Equal(t, `2026-03-05,Carla,"Silva, João",4.55,11136.00,600,762.00`, lines[1])
}

func TestWriteXLSXSingleSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "Silva, João", rows[1][2])

	v, err := f.GetCellValue(SheetName, "E2")
	require.NoError(t, err)
	assert.Equal(t, "11136", v)
}

func TestXLSXKeepsNumericLookingNamesAsText(t *testing.T) {
	proposals := []entity.Proposal{{
		SellerName:     "NaN",
		ClientName:     "123",
		SystemPowerKwp: 4.55,
		TotalValue:     11136,
		CreatedAt:      time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, proposals))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	for _, cell := range []string{"B2", "C2"} {
		typ, err := f.GetCellType(SheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, excelize.CellTypeSharedString, typ, cell)
	}
	v, err := f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "123", v)

	typ, err := f.GetCellType(SheetName, "E2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
}

func TestCSVToXLSXRejectsBrokenCSV(t *testing.T) {
	var out bytes.Buffer
	err := CSVToXLSX(strings.NewReader("a,b\n\"unterminated"), &out)
	assert.Error(t, err)
}
