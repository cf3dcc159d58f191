package ledger

import "time"

// DocumentType identifies which known accounting-export layout a sheet
// matched. The value is stored as-is in the reports table.
type DocumentType string

const (
	PurchaseLedger           DocumentType = "purchase_ledger"
	SalesLedger              DocumentType = "sales_ledger"
	TrialBalanceVAT          DocumentType = "trial_balance_19"
	TrialBalanceGoods        DocumentType = "trial_balance_41"
	TrialBalanceSalesExpense DocumentType = "trial_balance_44"
	TrialBalanceRevenue      DocumentType = "trial_balance_90"
	TrialBalanceOther        DocumentType = "trial_balance_91"
	MonthlySalesReport       DocumentType = "monthly_sales_report"
	LegacySummary            DocumentType = "legacy_summary"
	Unrecognized             DocumentType = "unrecognized"
)

// Account returns the 1C account number for trial-balance types, or 0.
func (t DocumentType) Account() int {
	switch t {
	case TrialBalanceVAT:
		return 19
	case TrialBalanceGoods:
		return 41
	case TrialBalanceSalesExpense:
		return 44
	case TrialBalanceRevenue:
		return 90
	case TrialBalanceOther:
		return 91
	}
	return 0
}

// Period is a reporting interval. Inferred marks periods that were not read
// from the document itself (filename year fallback or the placeholder).
type Period struct {
	Start    time.Time
	End      time.Time
	Inferred bool
}

// PlaceholderPeriod is returned when no period rule matched. Callers must
// treat records carrying it as "period unknown".
func PlaceholderPeriod() Period {
	return Period{
		Start:    time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(1, time.December, 31, 0, 0, 0, 0, time.UTC),
		Inferred: true,
	}
}

// Month returns the one-month period for year/month.
func Month(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// Year returns the full-year period for year.
func Year(year int) Period {
	return Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Record is the canonical financial line. Monetary fields are never NaN and
// default to 0; single-sided source documents leave the other side at 0
// (partial facts, not full transactions).
type Record struct {
	ID                  int64
	Company             string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	DocType             DocumentType
	ProductGroup        string
	Nomenclature        string
	Revenue             float64
	VATInRevenue        float64
	CostPrice           float64
	GrossProfit         float64
	SalesExpenses       float64
	OtherIncomeExpenses float64
	NetProfit           float64
	VATDeductible       float64
	VATToBudget         float64
	Quantity            int64
	CompanyInferred     bool
	PeriodInferred      bool
	ImportedAt          time.Time
}

// ImportBatch is one audit row per successfully imported file. It is never
// read back by computation.
type ImportBatch struct {
	ID          string
	Filename    string
	RecordCount int
	ImportedAt  time.Time
}

// Filters narrows Query and SummarizeVAT. Zero values mean "no filter".
type Filters struct {
	Company      string
	ProductGroup string
	DocType      DocumentType
	From         time.Time // period_start >= From
	To           time.Time // period_start <= To
}

// VATSummary is the headline figure set: VAT charged on sales, VAT
// deductible on purchases, and the balance owed to the budget.
type VATSummary struct {
	Output  float64
	Input   float64
	Payable float64
}

// Totals is the filtered headline row shown under the report table.
type Totals struct {
	Revenue   float64
	VATOwed   float64
	NetProfit float64
	Records   int
}
