package sheet

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// newWorkbook builds an in-memory workbook with one sheet holding rows.
func newWorkbook(t *testing.T, sheet string, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

func workbookBytes(t *testing.T, f *excelize.File) *bytes.Buffer {
	t.Helper()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestLoad_Workbook(t *testing.T) {
	f := newWorkbook(t, "Пожары", [][]any{
		{"Район", "Погибло", "", "Район"},
		{"Мирнинский", 1, "x", "dup"},
		{},
		{"Ленский", "2,0"},
	})

	table, err := Load(workbookBytes(t, f), "fires.xlsx", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Район", "Погибло", "unnamed: 2", "Район.1"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.RawRecord{"Район": "Мирнинский", "Погибло": "1", "unnamed: 2": "x", "Район.1": "dup"}, table.Rows[0])
	assert.Equal(t, "Ленский", table.Rows[1]["Район"])
	assert.Equal(t, "2,0", table.Rows[1]["Погибло"])
}

func TestLoad_NamedSheet(t *testing.T) {
	f := newWorkbook(t, "Сводка", [][]any{{"ignored"}, {"x"}})
	_, err := f.NewSheet("Реестр")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Реестр", "A1", &[]any{"Район"}))
	require.NoError(t, f.SetSheetRow("Реестр", "A2", &[]any{"Алданский"}))

	table, err := Load(workbookBytes(t, f), "fires.xlsx", Options{Sheet: "Реестр"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Район"}, table.Columns)
	assert.Equal(t, "Алданский", table.Rows[0]["Район"])

	_, err = Load(workbookBytes(t, f), "fires.xlsx", Options{Sheet: "Нет такого"})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoad_NoHeader(t *testing.T) {
	empty := newWorkbook(t, "Sheet1", nil)
	_, err := Load(workbookBytes(t, empty), "empty.xlsx", Options{})
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Load(strings.NewReader(" ; \n1;2\n"), "blank.csv", Options{})
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(strings.NewReader("%PDF-1.4"), "report.pdf", Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, Supported("report.pdf"))
	assert.True(t, Supported("REPORT.XLSX"))
}

func TestLoad_CorruptWorkbook(t *testing.T) {
	_, err := Load(strings.NewReader("not a zip archive"), "fires.xlsx", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open workbook")
}

func TestLoad_CSV(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"semicolon with BOM", "\ufeffРайон;Причина пожара\nЛенский;\"Неосторожное обращение; курение\"\n;\n"},
		{"comma", "Район,Причина пожара\nЛенский,\"Неосторожное обращение; курение\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(strings.NewReader(tt.data), "fires.csv", Options{})
			require.NoError(t, err)

			assert.Equal(t, []string{"Район", "Причина пожара"}, table.Columns)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, "Неосторожное обращение; курение", table.Rows[0]["Причина пожара"])
		})
	}
}

func TestLoadFile(t *testing.T) {
	f := newWorkbook(t, "Sheet1", [][]any{{"Дата", "Район"}, {"01.05.2022", "Мирнинский"}})
	path := filepath.Join(t.TempDir(), "fires.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "01.05.2022", table.Rows[0]["Дата"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.Error(t, err)
}

func TestUniqueHeaders(t *testing.T) {
	got := uniqueHeaders([]string{"a", " a ", "a.1", "", "a"})
	assert.Equal(t, []string{"a", "a.1", "a.1.1", "unnamed: 3", "a.2"}, got)
}
