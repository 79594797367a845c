package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkbook_SingleSheet(t *testing.T) {
	wb, err := NewWorkbook([]SheetSpec{
		{
			Title:  "Peserta",
			Header: []string{"Nama", "Email", "Status"},
			Rows: [][]string{
				{"Budi Santoso", "budi@example.com", "Diterima"},
				{"Siti Rahma", "siti@example.com", "Menunggu"},
			},
		},
	})
	require.NoError(t, err)

	got, err := wb.File.GetCellValue("Peserta", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Nama", got)

	got, err = wb.File.GetCellValue("Peserta", "C3")
	require.NoError(t, err)
	assert.Equal(t, "Menunggu", got)
}

func TestNewWorkbook_MultipleSheets(t *testing.T) {
	wb, err := NewWorkbook([]SheetSpec{
		{Title: "Gelombang 1", Header: []string{"Lomba", "Harga"}, Rows: [][]string{{"Esai", "50000"}}},
		{Title: "Gelombang 2", Header: []string{"Lomba", "Harga"}, Rows: [][]string{{"Esai", "75000"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Gelombang 1", "Gelombang 2"}, wb.File.GetSheetList())

	got, err := wb.File.GetCellValue("Gelombang 2", "B2")
	require.NoError(t, err)
	assert.Equal(t, "75000", got)
}

func TestColName(t *testing.T) {
	assert.Equal(t, "A", colName(1))
	assert.Equal(t, "Z", colName(26))
	assert.Equal(t, "AA", colName(27))
	assert.Equal(t, "AB", colName(28))
}

func TestNewWorkbook_RaggedRows(t *testing.T) {
	wb, err := NewWorkbook([]SheetSpec{
		{
			Title:  "Data",
			Header: []string{"A", "B", "C"},
			Rows:   [][]string{{"only-one"}},
		},
	})
	require.NoError(t, err)

	got, err := wb.File.GetCellValue("Data", "A2")
	require.NoError(t, err)
	assert.Equal(t, "only-one", got)
}
