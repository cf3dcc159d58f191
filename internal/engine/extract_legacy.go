package engine

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// Canonical legacy-summary field keys.
const (
	legacyPeriod        = "period"
	legacyCompany       = "company"
	legacyProductGroup  = "product_group"
	legacyNomenclature  = "nomenclature"
	legacyRevenue       = "revenue"
	legacyVATInRevenue  = "vat_in_revenue"
	legacyCostPrice     = "cost_price"
	legacyGrossProfit   = "gross_profit"
	legacySalesExpenses = "sales_expenses"
	legacyOtherIncome   = "other_income_expenses"
	legacyNetProfit     = "net_profit"
	legacyVATDeductible = "vat_deductible"
	legacyVATToBudget   = "vat_to_budget"
	legacyQuantity      = "quantity"
)

// legacyHeaderMap maps the human-readable source-language headers (and
// their common aliases) to canonical field keys.
var legacyHeaderMap = map[string]string{
	"период":                legacyPeriod,
	"компания":              legacyCompany,
	"организация":           legacyCompany,
	"товарная группа":       legacyProductGroup,
	"номенклатура":          legacyNomenclature,
	"выручка (с ндс)":       legacyRevenue,
	"выручка":               legacyRevenue,
	"ндс в выручке":         legacyVATInRevenue,
	"себестоимость":         legacyCostPrice,
	"валовая прибыль":       legacyGrossProfit,
	"расходы на продажу":    legacySalesExpenses,
	"прочие доходы/расходы": legacyOtherIncome,
	"чистая прибыль":        legacyNetProfit,
	"ндс к вычету":          legacyVATDeductible,
	"ндс к уплате":          legacyVATToBudget,
	"оборот (кол-во)":       legacyQuantity,
	"количество":            legacyQuantity,
}

// mandatoryLegacy lists the fields a legacy summary cannot import without,
// with their user-facing header names for the error message.
var mandatoryLegacy = []struct {
	key    string
	header string
}{
	{legacyPeriod, "Период"},
	{legacyCompany, "Компания"},
	{legacyProductGroup, "Товарная группа"},
	{legacyNomenclature, "Номенклатура"},
	{legacyRevenue, "Выручка (с НДС)"},
	{legacyVATInRevenue, "НДС в выручке"},
	{legacyCostPrice, "Себестоимость"},
	{legacyVATToBudget, "НДС К УПЛАТЕ"},
	{legacyQuantity, "Оборот (кол-во)"},
}

// legacyColumns scans the leading rows for the header row of a legacy
// summary and maps each recognized header to its column. Headers that miss
// the dictionary are matched fuzzily (Levenshtein distance ratio < 0.25) to
// tolerate punctuation drift between export versions. Fails with
// MissingColumnsError naming any unmapped mandatory columns.
func legacyColumns(s *excel.Sheet) (headerRow int, cols map[string]int, err error) {
	bestRow, bestCols := -1, map[string]int{}
	for r := 0; r < classifyWindow && r < s.RowCount(); r++ {
		mapped := map[string]int{}
		for c, cell := range s.Rows[r] {
			key := matchLegacyHeader(cell)
			if key == "" {
				continue
			}
			if _, taken := mapped[key]; !taken {
				mapped[key] = c
			}
		}
		if len(mapped) > len(bestCols) {
			bestRow, bestCols = r, mapped
		}
	}
	if len(bestCols) < 3 {
		return 0, nil, ledger.ErrUnrecognizedDocument
	}
	var missing []string
	for _, m := range mandatoryLegacy {
		if _, ok := bestCols[m.key]; !ok {
			missing = append(missing, m.header)
		}
	}
	if len(missing) > 0 {
		return 0, nil, &ledger.MissingColumnsError{Missing: missing}
	}
	return bestRow, bestCols, nil
}

func matchLegacyHeader(cell string) string {
	h := strings.ToLower(strings.TrimSpace(cell))
	if h == "" {
		return ""
	}
	if key, ok := legacyHeaderMap[h]; ok {
		return key
	}
	for known, key := range legacyHeaderMap {
		dist := levenshtein.ComputeDistance(h, known)
		limit := len([]rune(known))
		if limit == 0 {
			continue
		}
		if float64(dist)/float64(limit) < 0.25 {
			return key
		}
	}
	return ""
}

// legacyExtractor imports sheets that already carry one row per canonical
// record under human-readable headers. Profit fields are derived when the
// source omits them.
type legacyExtractor struct{}

func (legacyExtractor) Extract(s *excel.Sheet, meta Meta) ([]ledger.Record, error) {
	headerRow, cols, err := legacyColumns(s)
	if err != nil {
		return nil, err
	}

	cell := func(r int, key string) (string, bool) {
		c, ok := cols[key]
		if !ok {
			return "", false
		}
		return s.Cell(r, c), true
	}
	num := func(r int, key string) float64 {
		v, _ := cell(r, key)
		return CleanNumber(v)
	}

	var records []ledger.Record
	for r := headerRow + 1; r < s.RowCount(); r++ {
		nomenclature, _ := cell(r, legacyNomenclature)
		company, _ := cell(r, legacyCompany)
		if nomenclature == "" && company == "" {
			continue
		}

		rec := newRecord(ledger.LegacySummary, meta)
		if company != "" {
			rec.Company = company
			rec.CompanyInferred = false
		}
		if periodCell, ok := cell(r, legacyPeriod); ok {
			if p, parsed := ParsePeriodCell(periodCell); parsed {
				rec.PeriodStart = p.Start
				rec.PeriodEnd = p.End
				rec.PeriodInferred = false
			}
		}
		rec.ProductGroup, _ = cell(r, legacyProductGroup)
		rec.Nomenclature = nomenclature
		rec.Revenue = num(r, legacyRevenue)
		rec.VATInRevenue = num(r, legacyVATInRevenue)
		rec.CostPrice = num(r, legacyCostPrice)
		rec.SalesExpenses = num(r, legacySalesExpenses)
		rec.OtherIncomeExpenses = num(r, legacyOtherIncome)
		rec.VATDeductible = num(r, legacyVATDeductible)
		rec.VATToBudget = num(r, legacyVATToBudget)
		qtyCell, _ := cell(r, legacyQuantity)
		rec.Quantity = CleanQuantity(qtyCell)

		// Profit figures the export reports directly are kept as-is; the
		// identities only fill the gap when a profit column is unmapped.
		if _, ok := cols[legacyGrossProfit]; ok {
			rec.GrossProfit = num(r, legacyGrossProfit)
		} else {
			rec.GrossProfit = rec.Revenue - rec.VATInRevenue - rec.CostPrice
		}
		if _, ok := cols[legacyNetProfit]; ok {
			rec.NetProfit = num(r, legacyNetProfit)
		} else {
			rec.NetProfit = rec.GrossProfit - rec.SalesExpenses + rec.OtherIncomeExpenses
		}

		records = append(records, rec)
	}
	return sanitize(records), nil
}
