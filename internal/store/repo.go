package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

const dateFormat = "2006-01-02"

// Repo handles the reports and import_history tables.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Append normalizes and persists one file's record batch in a single
// transaction: a batch is applied fully or not at all. Returns the count
// appended.
func (r *Repo) Append(ctx context.Context, records []ledger.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	now := Now()
	err := WithTx(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reports(
		 company, period_start, period_end, doc_type, product_group, nomenclature,
		 revenue, vat_in_revenue, cost_price, gross_profit, sales_expenses,
		 other_income_expenses, net_profit, vat_deductible, vat_to_budget,
		 quantity, company_inferred, period_inferred, imported_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
		`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, rec := range records {
			_, err := stmt.ExecContext(ctx,
				rec.Company,
				rec.PeriodStart.Format(dateFormat),
				rec.PeriodEnd.Format(dateFormat),
				string(rec.DocType),
				rec.ProductGroup,
				rec.Nomenclature,
				rec.Revenue, rec.VATInRevenue, rec.CostPrice, rec.GrossProfit,
				rec.SalesExpenses, rec.OtherIncomeExpenses, rec.NetProfit,
				rec.VATDeductible, rec.VATToBudget,
				rec.Quantity,
				boolToInt(rec.CompanyInferred), boolToInt(rec.PeriodInferred),
				now.Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("insert record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Query returns records matching the filters, ordered by period descending
// then company ascending.
func (r *Repo) Query(ctx context.Context, f ledger.Filters) ([]ledger.Record, error) {
	where, args := buildWhere(f)
	query := `SELECT id, company, period_start, period_end, doc_type, product_group,
	 nomenclature, revenue, vat_in_revenue, cost_price, gross_profit, sales_expenses,
	 other_income_expenses, net_profit, vat_deductible, vat_to_budget, quantity,
	 company_inferred, period_inferred, imported_at FROM reports` + where +
		` ORDER BY period_start DESC, company ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []ledger.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SummarizeVAT computes the headline figure set over the filtered records:
// VAT charged on sales, VAT deductible on purchases, and their balance.
func (r *Repo) SummarizeVAT(ctx context.Context, f ledger.Filters) (ledger.VATSummary, error) {
	where, args := buildWhere(f)
	row := r.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(vat_to_budget), 0), COALESCE(SUM(vat_deductible), 0)
	FROM reports`+where, args...)

	var s ledger.VATSummary
	if err := row.Scan(&s.Output, &s.Input); err != nil {
		return ledger.VATSummary{}, fmt.Errorf("summarize vat: %w", err)
	}
	s.Payable = s.Output - s.Input
	return s, nil
}

// Totals computes the filtered revenue / VAT payable / net profit headline.
func (r *Repo) Totals(ctx context.Context, f ledger.Filters) (ledger.Totals, error) {
	where, args := buildWhere(f)
	row := r.db.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(revenue), 0),
	       COALESCE(SUM(vat_to_budget), 0) - COALESCE(SUM(vat_deductible), 0),
	       COALESCE(SUM(net_profit), 0),
	       COUNT(*)
	FROM reports`+where, args...)

	var t ledger.Totals
	if err := row.Scan(&t.Revenue, &t.VATOwed, &t.NetProfit, &t.Records); err != nil {
		return ledger.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return t, nil
}

// RecordImport appends one audit row for a successfully imported file.
// Audit rows are never read back by computation.
func (r *Repo) RecordImport(ctx context.Context, filename string, count int) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO import_history(id, filename, records_count, imported_at)
	VALUES(?, ?, ?, ?);
	`, uuid.NewString(), filename, count, Now().Format(time.RFC3339))
	return err
}

// ListImports returns the audit trail, most recent first.
func (r *Repo) ListImports(ctx context.Context) ([]ledger.ImportBatch, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, filename, records_count, imported_at
	FROM import_history ORDER BY imported_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []ledger.ImportBatch
	for rows.Next() {
		var b ledger.ImportBatch
		var imported string
		if err := rows.Scan(&b.ID, &b.Filename, &b.RecordCount, &imported); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		b.ImportedAt, _ = time.Parse(time.RFC3339, imported)
		out = append(out, b)
	}
	return out, rows.Err()
}

func buildWhere(f ledger.Filters) (string, []interface{}) {
	var where []string
	var args []interface{}

	if f.Company != "" {
		where = append(where, "company = ?")
		args = append(args, f.Company)
	}
	if f.ProductGroup != "" {
		where = append(where, "product_group = ?")
		args = append(args, f.ProductGroup)
	}
	if f.DocType != "" {
		where = append(where, "doc_type = ?")
		args = append(args, string(f.DocType))
	}
	if !f.From.IsZero() {
		where = append(where, "period_start >= ?")
		args = append(args, f.From.Format(dateFormat))
	}
	if !f.To.IsZero() {
		where = append(where, "period_start <= ?")
		args = append(args, f.To.Format(dateFormat))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func scanRecord(rows *sql.Rows) (ledger.Record, error) {
	var rec ledger.Record
	var start, end, docType, imported string
	var companyInferred, periodInferred int
	err := rows.Scan(
		&rec.ID, &rec.Company, &start, &end, &docType, &rec.ProductGroup,
		&rec.Nomenclature, &rec.Revenue, &rec.VATInRevenue, &rec.CostPrice,
		&rec.GrossProfit, &rec.SalesExpenses, &rec.OtherIncomeExpenses,
		&rec.NetProfit, &rec.VATDeductible, &rec.VATToBudget, &rec.Quantity,
		&companyInferred, &periodInferred, &imported,
	)
	if err != nil {
		return ledger.Record{}, fmt.Errorf("scan record: %w", err)
	}
	rec.DocType = ledger.DocumentType(docType)
	rec.PeriodStart, _ = time.Parse(dateFormat, start)
	rec.PeriodEnd, _ = time.Parse(dateFormat, end)
	rec.CompanyInferred = companyInferred == 1
	rec.PeriodInferred = periodInferred == 1
	rec.ImportedAt, _ = time.Parse(time.RFC3339, imported)
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
