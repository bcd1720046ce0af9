package debthistory

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSV(t *testing.T) {
	cols := Columns(time.UTC)
	rows := Rows(sampleRecords(), cols, TableQuery{Filter: "kone"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, rows))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Nom", lines[0][0])
	assert.Equal(t, "Motif d'acquisation de dette", lines[0][5])
	assert.Equal(t, []string{"Diallo", "Awa", "Nana", "2024-01-05", "100", "Tresses", "Moussa", "Kone"}, lines[1])
}

func TestWriteXLSX(t *testing.T) {
	cols := Columns(time.UTC)
	rows := Rows(sampleRecords(), cols, TableQuery{Sort: "debtAmount"})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, cols, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "Nom", got[0][0])
	assert.Equal(t, "9.5", got[1][4])
	assert.Equal(t, "100", got[3][4])

	amountType, err := f.GetCellType(exportSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeUnset, amountType, "amounts are stored as numbers")
	nameType, err := f.GetCellType(exportSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, nameType)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "historique-dettes-2024-01-31.csv", ExportFilename("2024-01-31", "csv"))
}
