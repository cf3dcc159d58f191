package engine

import (
	"errors"
	"strings"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// classifyWindow is how many leading rows are flattened for signature
// matching. Source-system title blocks never exceed this.
const classifyWindow = 10

// signature matches when every clause has at least one of its alternatives
// present in the flattened header text.
type signature struct {
	docType ledger.DocumentType
	clauses [][]string
}

// signatures is checked in order; the first match wins. Trial-balance
// signatures come before the ledgers and the monthly report because their
// phrases are longer and more qualified, and account 19 outranks
// 41/44/90/91 when a sheet mentions several accounts.
var signatures = []signature{
	{ledger.TrialBalanceVAT, [][]string{{"оборотно-сальдовая ведомость", "ведомость по счету"}, {"счету 19", "счет 19"}}},
	{ledger.TrialBalanceGoods, [][]string{{"оборотно-сальдовая ведомость", "ведомость по счету"}, {"счету 41", "счет 41"}}},
	{ledger.TrialBalanceSalesExpense, [][]string{{"оборотно-сальдовая ведомость", "ведомость по счету"}, {"счету 44", "счет 44"}}},
	{ledger.TrialBalanceRevenue, [][]string{{"оборотно-сальдовая ведомость", "ведомость по счету"}, {"счету 90", "счет 90"}}},
	{ledger.TrialBalanceOther, [][]string{{"оборотно-сальдовая ведомость", "ведомость по счету"}, {"счету 91", "счет 91"}}},
	{ledger.PurchaseLedger, [][]string{{"книга покупок"}}},
	{ledger.SalesLedger, [][]string{{"книга продаж"}}},
	{ledger.MonthlySalesReport, [][]string{{"отчет по продажам за", "отчет о продажах за", "продажи по месяцам"}}},
}

// Classify decides which known document layout the sheet matches.
// Classification is deterministic: the same content always resolves to the
// same type. When no signature matches, the sheet is tried as a legacy
// summary (recognizable human-readable headers); failing that it is
// Unrecognized and the caller surfaces the file as a named import failure.
func Classify(s *excel.Sheet) ledger.DocumentType {
	head := strings.ToLower(s.HeadText(classifyWindow))
	for _, sig := range signatures {
		if sig.matches(head) {
			return sig.docType
		}
	}
	_, _, err := legacyColumns(s)
	var missing *ledger.MissingColumnsError
	if err == nil || errors.As(err, &missing) {
		// A partially-mapped legacy sheet is still a legacy sheet; its
		// extractor reports the missing mandatory columns by name.
		return ledger.LegacySummary
	}
	return ledger.Unrecognized
}

func (sig signature) matches(head string) bool {
	for _, clause := range sig.clauses {
		hit := false
		for _, alt := range clause {
			if strings.Contains(head, alt) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}
