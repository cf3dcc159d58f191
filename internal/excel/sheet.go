// Package excel reads accounting export workbooks into an immutable cell
// grid and writes the blank legacy-summary template.
package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is an ordered grid of untyped cells read once per source file.
// Merged regions are filled with the anchor value at every covered
// coordinate, so locators can treat the grid as rectangular.
type Sheet struct {
	File string
	Rows [][]string
}

// Load reads the first sheet of the workbook at path. Exports from the
// source system put the report on the first sheet; others are ignored.
func Load(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	grid, err := filledGrid(f, sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return &Sheet{File: path, Rows: grid}, nil
}

// Cell returns the trimmed cell value at (row, col), or "" out of range.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// RowCount reports the number of rows in the grid.
func (s *Sheet) RowCount() int { return len(s.Rows) }

// HeadText joins the first n rows into one string, preserving case. Header
// extraction and classification work on this flattened text so that row
// drift between template versions does not matter.
func (s *Sheet) HeadText(n int) string {
	if n > len(s.Rows) {
		n = len(s.Rows)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		for _, cell := range s.Rows[i] {
			if cell == "" {
				continue
			}
			b.WriteString(cell)
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// filledGrid returns a rectangular grid with every cell trimmed and merged
// ranges filled down with the merge anchor value.
func filledGrid(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	grid := make([][]string, len(rows))
	for i := range grid {
		grid[i] = make([]string, maxCol)
		for j, cell := range rows[i] {
			grid[i][j] = strings.TrimSpace(cell)
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	for _, merge := range merges {
		val := strings.TrimSpace(merge.GetCellValue())
		c1, r1, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			continue
		}
		c2, r2, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			continue
		}
		for r := r1 - 1; r < r2 && r < len(grid); r++ {
			for c := c1 - 1; c < c2 && c < len(grid[r]); c++ {
				grid[r][c] = val
			}
		}
	}
	return grid, nil
}
