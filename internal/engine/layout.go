package engine

import (
	"strings"
	"time"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// locateWindow is how many leading rows are scanned for an anchor before
// giving up. Headers drift between template versions but never this far.
const locateWindow = 30

// Field names a located column. The per-file column map replaces the
// hard-coded column indices of older template versions: positions are read
// from the actual header row of each file.
type Field int

const (
	FieldName Field = iota
	FieldCounterparty
	FieldValue
	FieldVAT
	FieldDebit
	FieldCredit
)

// MonthPair is one (quantity, amount) column pair detected in a monthly
// sales report header.
type MonthPair struct {
	Month       time.Month
	QuantityCol int
	AmountCol   int
}

// Layout locates the tabular body of a classified sheet.
type Layout struct {
	HeaderRow int
	DataStart int
	Columns   map[Field]int
	Months    []MonthPair
}

// tbAxis maps each trial-balance account to its second-axis label and the
// empirically fixed distance from the anchor row to the first data row.
// For 19/41/44 the axis sits on the row below the "Счет" anchor; for 90/91
// it shares the anchor row.
var tbAxis = map[ledger.DocumentType]struct {
	label      string
	sameRow    bool
	dataOffset int
}{
	ledger.TrialBalanceVAT:          {"контрагенты", false, 2},
	ledger.TrialBalanceGoods:        {"номенклатура", false, 2},
	ledger.TrialBalanceSalesExpense: {"статьи затрат", false, 2},
	ledger.TrialBalanceRevenue:      {"показатели", true, 1},
	ledger.TrialBalanceOther:        {"прочие доходы и расходы", true, 1},
}

// Locate finds the row/column offsets where the tabular body of the sheet
// begins for the given document type. It fails with LayoutNotFoundError
// rather than guessing: the caller aborts the file and continues the batch.
func Locate(s *excel.Sheet, docType ledger.DocumentType) (Layout, error) {
	switch docType {
	case ledger.PurchaseLedger, ledger.SalesLedger:
		return locateNumberedLedger(s, docType)
	case ledger.TrialBalanceVAT, ledger.TrialBalanceGoods, ledger.TrialBalanceSalesExpense,
		ledger.TrialBalanceRevenue, ledger.TrialBalanceOther:
		return locateTrialBalance(s, docType)
	case ledger.MonthlySalesReport:
		return locateMonthly(s)
	case ledger.LegacySummary:
		header, cols, err := legacyColumns(s)
		if err != nil {
			return Layout{}, err
		}
		return Layout{HeaderRow: header, DataStart: header + 1, Columns: map[Field]int{FieldName: cols[legacyNomenclature]}}, nil
	}
	return Layout{}, &ledger.LayoutNotFoundError{Type: docType, Anchor: "known document type"}
}

// locateNumberedLedger finds the column-position legend row printed by the
// source system: the first row whose first five cells are literally
// "1".."5". Data begins on the next row; the named header row sits
// immediately above the legend.
func locateNumberedLedger(s *excel.Sheet, docType ledger.DocumentType) (Layout, error) {
	legend := -1
	for r := 0; r < locateWindow && r < s.RowCount(); r++ {
		if s.Cell(r, 0) == "1" && s.Cell(r, 1) == "2" && s.Cell(r, 2) == "3" &&
			s.Cell(r, 3) == "4" && s.Cell(r, 4) == "5" {
			legend = r
			break
		}
	}
	if legend <= 0 {
		return Layout{}, &ledger.LayoutNotFoundError{Type: docType, Anchor: `column legend row "1","2","3","4","5"`}
	}

	header := legend - 1
	cols := map[Field]int{}
	for c := 0; c < 60; c++ {
		cell := strings.ToLower(s.Cell(header, c))
		switch {
		case containsAny(cell, "контрагент", "покупател", "продавец", "поставщик", "наименование"):
			setOnce(cols, FieldCounterparty, c)
		// The value column header also mentions VAT ("стоимость продаж с
		// НДС"), so "стоимост" disqualifies a cell from being the VAT column.
		case strings.Contains(cell, "ндс") && !strings.Contains(cell, "стоимост"):
			setOnce(cols, FieldVAT, c)
		case containsAny(cell, "стоимост", "сумма"):
			setOnce(cols, FieldValue, c)
		}
	}
	for _, f := range []Field{FieldCounterparty, FieldValue, FieldVAT} {
		if _, ok := cols[f]; !ok {
			return Layout{}, &ledger.LayoutNotFoundError{Type: docType, Anchor: "named header row above the column legend"}
		}
	}
	return Layout{HeaderRow: header, DataStart: legend + 1, Columns: cols}, nil
}

// locateTrialBalance finds the "Счет" anchor row whose same-or-next row
// carries the account's second-axis label, then resolves the debit/credit
// turnover columns from the header block.
func locateTrialBalance(s *excel.Sheet, docType ledger.DocumentType) (Layout, error) {
	axis := tbAxis[docType]
	for r := 0; r < locateWindow && r < s.RowCount(); r++ {
		if !strings.Contains(strings.ToLower(s.Cell(r, 0)), "счет") {
			continue
		}
		axisRow := r + 1
		if axis.sameRow {
			axisRow = r
		}
		if !rowContains(s, axisRow, axis.label) {
			continue
		}
		debit, credit, ok := turnoverColumns(s, r)
		if !ok {
			continue
		}
		return Layout{
			HeaderRow: r,
			DataStart: r + axis.dataOffset,
			Columns:   map[Field]int{FieldName: 0, FieldDebit: debit, FieldCredit: credit},
		}, nil
	}
	return Layout{}, &ledger.LayoutNotFoundError{
		Type:   docType,
		Anchor: `"Счет" row followed by "` + axis.label + `"`,
	}
}

// turnoverColumns resolves the debit and credit turnover columns from the
// anchor row (where "Обороты за период" spans two columns after merge fill)
// and the sub-label row below it.
func turnoverColumns(s *excel.Sheet, anchor int) (debit, credit int, ok bool) {
	first, last := -1, -1
	for c := 0; c < 40; c++ {
		if strings.Contains(strings.ToLower(s.Cell(anchor, c)), "оборот") {
			if first < 0 {
				first = c
			}
			last = c
		}
	}
	if first < 0 {
		return 0, 0, false
	}
	debit, credit = first, first+1
	for c := first; c <= last; c++ {
		sub := strings.ToLower(s.Cell(anchor+1, c))
		if strings.Contains(sub, "дебет") {
			debit = c
		}
		if strings.Contains(sub, "кредит") {
			credit = c
		}
	}
	if credit == debit {
		credit = debit + 1
	}
	return debit, credit, true
}

// locateMonthly finds the header row of a monthly sales report: the row
// where Cyrillic month names label (quantity, amount) column pairs. After
// merge fill a month name appears in both columns of its pair. A title row
// merged across the table also repeats a month stem into every column, so a
// uniform row is never a header, and a row with two or more distinct months
// beats an earlier single-month candidate.
func locateMonthly(s *excel.Sheet) (Layout, error) {
	best := -1
	var bestPairs []MonthPair
	for r := 0; r < locateWindow && r < s.RowCount(); r++ {
		if uniformRow(s.Rows[r]) {
			continue
		}
		pairs := monthPairs(s, r)
		if len(pairs) == 0 {
			continue
		}
		if distinctMonths(pairs) >= 2 {
			best, bestPairs = r, pairs
			break
		}
		if best < 0 {
			best, bestPairs = r, pairs
		}
	}
	if best < 0 {
		return Layout{}, &ledger.LayoutNotFoundError{Type: ledger.MonthlySalesReport, Anchor: "header row with month-name column pairs"}
	}
	dataStart := best + 1
	if subRowLabelsPairs(s, best+1) {
		dataStart = best + 2
	}
	return Layout{HeaderRow: best, DataStart: dataStart, Columns: map[Field]int{FieldName: 0}, Months: bestPairs}, nil
}

// uniformRow reports whether three or more non-empty cells in the row all
// hold the same text, the shape a title merged across the table leaves
// after fill. A single (quantity, amount) pair repeats a value only twice
// and stays eligible.
func uniformRow(row []string) bool {
	seen := ""
	n := 0
	for _, cell := range row {
		if cell == "" {
			continue
		}
		n++
		if seen == "" {
			seen = cell
		} else if cell != seen {
			return false
		}
	}
	return n > 2
}

func distinctMonths(pairs []MonthPair) int {
	months := map[time.Month]bool{}
	for _, p := range pairs {
		months[p.Month] = true
	}
	return len(months)
}

// monthPairs scans a header row for month-name labels and groups adjacent
// columns sharing a label into (quantity, amount) pairs.
func monthPairs(s *excel.Sheet, r int) []MonthPair {
	var pairs []MonthPair
	row := s.Rows[r]
	for c := 1; c < len(row); c++ {
		mm, ok := MonthNumber(row[c])
		if !ok {
			continue
		}
		qty, amount := c, c
		if c+1 < len(row) {
			if next, nok := MonthNumber(row[c+1]); nok && next == mm {
				amount = c + 1
			}
		}
		if amount == qty {
			// A single column per month carries only the amount.
			qty = -1
		}
		month := time.Month(int(mm[0]-'0')*10 + int(mm[1]-'0'))
		pairs = append(pairs, MonthPair{Month: month, QuantityCol: qty, AmountCol: amount})
		c = amount
	}
	return pairs
}

func subRowLabelsPairs(s *excel.Sheet, r int) bool {
	if r >= s.RowCount() {
		return false
	}
	joined := strings.ToLower(strings.Join(s.Rows[r], " "))
	return strings.Contains(joined, "кол") || strings.Contains(joined, "сумм")
}

func rowContains(s *excel.Sheet, r int, needle string) bool {
	if r < 0 || r >= s.RowCount() {
		return false
	}
	for _, cell := range s.Rows[r] {
		if strings.Contains(strings.ToLower(cell), needle) {
			return true
		}
	}
	return false
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func setOnce(m map[Field]int, f Field, c int) {
	if _, ok := m[f]; !ok {
		m[f] = c
	}
}
