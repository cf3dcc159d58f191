package engine

import (
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// monthlyExtractor handles the sales-by-month report: the header carries one
// (quantity, amount) column pair per calendar month, and every
// (nomenclature × month) combination with a non-zero value becomes a record
// for that month's period. Amounts are VAT-inclusive; the VAT share is
// derived with the configured rate.
type monthlyExtractor struct{}

func (monthlyExtractor) Extract(s *excel.Sheet, meta Meta) ([]ledger.Record, error) {
	layout, err := Locate(s, ledger.MonthlySalesReport)
	if err != nil {
		return nil, err
	}
	nameCol := layout.Columns[FieldName]
	rate := meta.VATRatePercent
	if rate <= 0 || rate >= 100 {
		rate = 20
	}
	year := meta.Period.Start.Year()

	var records []ledger.Record
	for r := layout.DataStart; r < s.RowCount(); r++ {
		name := s.Cell(r, nameCol)
		if name == "" {
			continue
		}
		if isTotalRow(name) {
			break
		}
		for _, pair := range layout.Months {
			var qty int64
			if pair.QuantityCol >= 0 {
				qty = CleanQuantity(s.Cell(r, pair.QuantityCol))
			}
			amount := CleanNumber(s.Cell(r, pair.AmountCol))
			if qty == 0 && amount == 0 {
				continue
			}
			rec := newRecord(ledger.MonthlySalesReport, meta)
			month := ledger.Month(year, pair.Month)
			rec.PeriodStart = month.Start
			rec.PeriodEnd = month.End
			rec.Nomenclature = name
			rec.Quantity = qty
			rec.Revenue = amount
			vat := amount * rate / (100 + rate)
			rec.VATInRevenue = vat
			rec.VATToBudget = vat
			records = append(records, rec)
		}
	}
	return sanitize(records), nil
}
