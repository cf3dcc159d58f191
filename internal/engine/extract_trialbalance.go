package engine

import (
	"strings"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// trialBalanceExtractor handles the single-sided trial balances (accounts
// 19, 41 and 44): one record per axis row with a non-zero turnover on the
// side that account reports.
type trialBalanceExtractor struct {
	docType ledger.DocumentType
}

func (e trialBalanceExtractor) Extract(s *excel.Sheet, meta Meta) ([]ledger.Record, error) {
	layout, err := Locate(s, e.docType)
	if err != nil {
		return nil, err
	}
	nameCol := layout.Columns[FieldName]
	debitCol := layout.Columns[FieldDebit]
	creditCol := layout.Columns[FieldCredit]

	var records []ledger.Record
	for r := layout.DataStart; r < s.RowCount(); r++ {
		name := s.Cell(r, nameCol)
		if name == "" {
			continue
		}
		if isTotalRow(name) {
			break
		}
		var rec ledger.Record
		switch e.docType {
		case ledger.TrialBalanceVAT:
			debit := CleanNumber(s.Cell(r, debitCol))
			if debit == 0 {
				continue
			}
			rec = newRecord(e.docType, meta)
			rec.VATDeductible = debit
		case ledger.TrialBalanceGoods:
			credit := CleanNumber(s.Cell(r, creditCol))
			if credit == 0 {
				continue
			}
			rec = newRecord(e.docType, meta)
			rec.CostPrice = credit
		case ledger.TrialBalanceSalesExpense:
			debit := CleanNumber(s.Cell(r, debitCol))
			if debit == 0 {
				continue
			}
			rec = newRecord(e.docType, meta)
			rec.SalesExpenses = debit
		default:
			continue
		}
		rec.Nomenclature = name
		records = append(records, rec)
	}
	return sanitize(records), nil
}

// subAccountExtractor handles accounts 90 and 91, whose meaning lives in
// sub-account codes embedded in the axis-name cell. A sheet with no
// sub-account rows is unextractable: falling back to the unsplit total
// would mix revenue and cost and corrupt profit.
type subAccountExtractor struct {
	docType ledger.DocumentType
}

func (e subAccountExtractor) Extract(s *excel.Sheet, meta Meta) ([]ledger.Record, error) {
	layout, err := Locate(s, e.docType)
	if err != nil {
		return nil, err
	}
	nameCol := layout.Columns[FieldName]
	debitCol := layout.Columns[FieldDebit]
	creditCol := layout.Columns[FieldCredit]

	var records []ledger.Record
	sawRow, sawCode := false, false
	for r := layout.DataStart; r < s.RowCount(); r++ {
		name := s.Cell(r, nameCol)
		if name == "" {
			continue
		}
		if isTotalRow(name) {
			break
		}
		sawRow = true
		debit := CleanNumber(s.Cell(r, debitCol))
		credit := CleanNumber(s.Cell(r, creditCol))
		rec := newRecord(e.docType, meta)
		rec.Nomenclature = name
		switch {
		case e.docType == ledger.TrialBalanceRevenue && strings.Contains(name, "90.01"):
			sawCode = true
			if credit == 0 {
				continue
			}
			rec.Revenue = credit
		case e.docType == ledger.TrialBalanceRevenue && strings.Contains(name, "90.02"):
			sawCode = true
			if debit == 0 {
				continue
			}
			rec.CostPrice = debit
		case e.docType == ledger.TrialBalanceRevenue && strings.Contains(name, "90.03"):
			sawCode = true
			if debit == 0 {
				continue
			}
			rec.VATInRevenue = debit
			rec.VATToBudget = debit
		case e.docType == ledger.TrialBalanceOther && strings.Contains(name, "91.01"):
			sawCode = true
			if credit == 0 {
				continue
			}
			rec.OtherIncomeExpenses = credit
		case e.docType == ledger.TrialBalanceOther && strings.Contains(name, "91.02"):
			sawCode = true
			if debit == 0 {
				continue
			}
			rec.OtherIncomeExpenses = -debit
		default:
			continue
		}
		records = append(records, rec)
	}
	// An empty data region is fine, and so are sub-account rows whose
	// turnover happens to be zero. Rows without a single recognizable
	// sub-account code are not: the unsplit total cannot be imported.
	if sawRow && !sawCode {
		return nil, ledger.ErrNoSubAccounts
	}
	return sanitize(records), nil
}
