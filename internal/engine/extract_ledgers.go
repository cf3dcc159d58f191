package engine

import (
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// ledgerBookExtractor handles the purchase and sales ledgers ("книга
// покупок"/"книга продаж"). Both use the numbered-column legend layout and
// differ only in which side of the VAT equation their rows populate.
type ledgerBookExtractor struct {
	docType ledger.DocumentType
}

func (e ledgerBookExtractor) Extract(s *excel.Sheet, meta Meta) ([]ledger.Record, error) {
	layout, err := Locate(s, e.docType)
	if err != nil {
		return nil, err
	}
	nameCol := layout.Columns[FieldCounterparty]
	valueCol := layout.Columns[FieldValue]
	vatCol := layout.Columns[FieldVAT]

	var records []ledger.Record
	for r := layout.DataStart; r < s.RowCount(); r++ {
		first := s.Cell(r, 0)
		if isTotalRow(first) || isTotalRow(s.Cell(r, nameCol)) {
			if total := CleanNumber(s.Cell(r, vatCol)); total != 0 {
				rec := newRecord(e.docType, meta)
				rec.Nomenclature = "Итого"
				e.fill(&rec, 0, total)
				records = append(records, rec)
			}
			break
		}
		if first == "" {
			continue
		}
		name := s.Cell(r, nameCol)
		if name == "" {
			continue
		}
		value := CleanNumber(s.Cell(r, valueCol))
		vat := CleanNumber(s.Cell(r, vatCol))
		if value == 0 && vat == 0 {
			// Zero-amount rows are formatting artifacts, not data errors.
			continue
		}
		rec := newRecord(e.docType, meta)
		rec.Nomenclature = name
		e.fill(&rec, value, vat)
		records = append(records, rec)
	}
	return sanitize(records), nil
}

// fill maps the (value, vat) pair onto the record: purchases carry cost and
// deductible VAT, sales carry revenue and charged VAT.
func (e ledgerBookExtractor) fill(rec *ledger.Record, value, vat float64) {
	if e.docType == ledger.PurchaseLedger {
		rec.CostPrice = value
		rec.VATDeductible = vat
		return
	}
	rec.Revenue = value
	rec.VATInRevenue = vat
	rec.VATToBudget = vat
}
