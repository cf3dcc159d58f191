package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateHeaders are the canonical legacy-summary column headers, in the
// source-system language and order. A sheet carrying exactly these headers
// imports without any heuristics.
var TemplateHeaders = []string{
	"Период",
	"Компания",
	"Товарная группа",
	"Номенклатура",
	"Выручка (с НДС)",
	"НДС в выручке",
	"Себестоимость",
	"Валовая прибыль",
	"Расходы на продажу",
	"Прочие доходы/расходы",
	"Чистая прибыль",
	"НДС к вычету",
	"НДС К УПЛАТЕ",
	"Оборот (кол-во)",
}

// WriteTemplate creates a blank workbook with the canonical headers at path,
// for users preparing manually-built input. The engine only produces this
// file; it never reads it back specially.
func WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, h := range TemplateHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header %q: %w", h, err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(TemplateHeaders), 1)
		_ = f.SetCellStyle(sheet, "A1", last, style)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}
