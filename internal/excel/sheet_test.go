package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}, merges [][2]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	for _, m := range merges {
		require.NoError(t, f.MergeCell(sheet, m[0], m[1]))
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadFillsMergedCells(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]interface{}{
		{"Обороты за период", nil, "Сальдо"},
		{"Дебет", "Кредит", ""},
	}, [][2]string{{"A1", "B1"}})

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Обороты за период", s.Cell(0, 0))
	require.Equal(t, "Обороты за период", s.Cell(0, 1))
	require.Equal(t, "Сальдо", s.Cell(0, 2))
	require.Equal(t, "Кредит", s.Cell(1, 1))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "нет.xlsx"))
	require.Error(t, err)
}

func TestCellOutOfRange(t *testing.T) {
	t.Parallel()

	s := &Sheet{Rows: [][]string{{"a"}}}
	require.Equal(t, "a", s.Cell(0, 0))
	require.Equal(t, "", s.Cell(0, 5))
	require.Equal(t, "", s.Cell(3, 0))
	require.Equal(t, "", s.Cell(-1, -1))
}

func TestHeadTextPreservesCase(t *testing.T) {
	t.Parallel()

	s := &Sheet{Rows: [][]string{
		{"Книга продаж"},
		{"Продавец:", `ООО "Ромашка"`},
	}}
	head := s.HeadText(5)
	require.Contains(t, head, "Книга продаж")
	require.Contains(t, head, `ООО "Ромашка"`)
}

func TestWriteTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "шаблон.xlsx")
	require.NoError(t, WriteTemplate(path))

	s, err := Load(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, s.RowCount(), 1)
	for i, h := range TemplateHeaders {
		require.Equal(t, h, s.Cell(0, i))
	}
}
