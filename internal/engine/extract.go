package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// Meta carries the per-file context an extractor stamps onto every record.
type Meta struct {
	Company         string
	CompanyInferred bool
	Period          ledger.Period
	VATRatePercent  float64
}

// Extractor turns the located body of a sheet into normalized ledger
// records. One implementation exists per DocumentType; all of them are pure
// over (sheet, meta).
type Extractor interface {
	Extract(s *excel.Sheet, meta Meta) ([]ledger.Record, error)
}

// ForType selects the extraction strategy for a classified document.
func ForType(docType ledger.DocumentType) (Extractor, error) {
	switch docType {
	case ledger.PurchaseLedger:
		return ledgerBookExtractor{docType: docType}, nil
	case ledger.SalesLedger:
		return ledgerBookExtractor{docType: docType}, nil
	case ledger.TrialBalanceVAT, ledger.TrialBalanceGoods, ledger.TrialBalanceSalesExpense:
		return trialBalanceExtractor{docType: docType}, nil
	case ledger.TrialBalanceRevenue, ledger.TrialBalanceOther:
		return subAccountExtractor{docType: docType}, nil
	case ledger.MonthlySalesReport:
		return monthlyExtractor{}, nil
	case ledger.LegacySummary:
		return legacyExtractor{}, nil
	}
	return nil, fmt.Errorf("no extractor for document type %q", docType)
}

// newRecord returns a record pre-stamped with the per-file context.
func newRecord(docType ledger.DocumentType, meta Meta) ledger.Record {
	return ledger.Record{
		Company:         meta.Company,
		CompanyInferred: meta.CompanyInferred,
		PeriodStart:     meta.Period.Start,
		PeriodEnd:       meta.Period.End,
		PeriodInferred:  meta.Period.Inferred,
		DocType:         docType,
	}
}

// sanitize enforces the post-processing contract shared by all extractors:
// monetary fields are finite floats defaulting to 0, quantity is a
// non-negative integer.
func sanitize(records []ledger.Record) []ledger.Record {
	for i := range records {
		r := &records[i]
		for _, f := range []*float64{
			&r.Revenue, &r.VATInRevenue, &r.CostPrice, &r.GrossProfit,
			&r.SalesExpenses, &r.OtherIncomeExpenses, &r.NetProfit,
			&r.VATDeductible, &r.VATToBudget,
		} {
			if math.IsNaN(*f) || math.IsInf(*f, 0) {
				*f = 0
			}
		}
		if r.Quantity < 0 {
			r.Quantity = 0
		}
	}
	return records
}

// isTotalRow reports whether a first cell marks the ledger's closing total.
func isTotalRow(cell string) bool {
	c := strings.ToLower(cell)
	return strings.Contains(c, "итого") || strings.Contains(c, "всего")
}
