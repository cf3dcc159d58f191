package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return NewRepo(db)
}

func testRecord(company string, period ledger.Period, docType ledger.DocumentType) ledger.Record {
	return ledger.Record{
		Company:      company,
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
		DocType:      docType,
		Nomenclature: "Товар",
	}
}

func TestAppendAndQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepo(t)

	feb := ledger.Month(2024, time.February)
	mar := ledger.Month(2024, time.March)

	a := testRecord(`ООО "Вектор"`, feb, ledger.SalesLedger)
	a.Revenue = 120000
	a.VATInRevenue = 20000
	a.VATToBudget = 20000
	b := testRecord(`ООО "Ромашка"`, mar, ledger.PurchaseLedger)
	b.CostPrice = 90000
	b.VATDeductible = 15000
	b.CompanyInferred = true

	n, err := repo.Append(ctx, []ledger.Record{a, b})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	all, err := repo.Query(ctx, ledger.Filters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// period_start DESC: March before February.
	require.Equal(t, `ООО "Ромашка"`, all[0].Company)
	require.True(t, all[0].CompanyInferred)
	require.Equal(t, mar.Start, all[0].PeriodStart)
	require.Equal(t, 120000.0, all[1].Revenue)

	filtered, err := repo.Query(ctx, ledger.Filters{Company: `ООО "Вектор"`})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, ledger.SalesLedger, filtered[0].DocType)

	byDate, err := repo.Query(ctx, ledger.Filters{From: mar.Start})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	require.Equal(t, `ООО "Ромашка"`, byDate[0].Company)
}

func TestAppendEmptyBatch(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)

	n, err := repo.Append(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSummarizeVAT(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepo(t)

	feb := ledger.Month(2024, time.February)
	sale := testRecord(`ООО "Вектор"`, feb, ledger.SalesLedger)
	sale.VATToBudget = 150000
	purchase := testRecord(`ООО "Вектор"`, feb, ledger.PurchaseLedger)
	purchase.VATDeductible = 90000

	_, err := repo.Append(ctx, []ledger.Record{sale, purchase})
	require.NoError(t, err)

	s, err := repo.SummarizeVAT(ctx, ledger.Filters{})
	require.NoError(t, err)
	require.Equal(t, 150000.0, s.Output)
	require.Equal(t, 90000.0, s.Input)
	require.Equal(t, 60000.0, s.Payable)
}

func TestTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepo(t)

	feb := ledger.Month(2024, time.February)
	rec := testRecord(`ООО "Вектор"`, feb, ledger.LegacySummary)
	rec.Revenue = 120000
	rec.VATToBudget = 20000
	rec.NetProfit = 26000

	_, err := repo.Append(ctx, []ledger.Record{rec})
	require.NoError(t, err)

	tot, err := repo.Totals(ctx, ledger.Filters{})
	require.NoError(t, err)
	require.Equal(t, 1, tot.Records)
	require.Equal(t, 120000.0, tot.Revenue)
	require.Equal(t, 20000.0, tot.VATOwed)
	require.Equal(t, 26000.0, tot.NetProfit)

	empty, err := repo.Totals(ctx, ledger.Filters{Company: "нет такой"})
	require.NoError(t, err)
	require.Zero(t, empty.Records)
	require.Zero(t, empty.Revenue)
}

func TestImportHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.RecordImport(ctx, "книга_продаж.xlsx", 12))
	require.NoError(t, repo.RecordImport(ctx, "осв_41.xlsx", 3))

	batches, err := repo.ListImports(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	for _, b := range batches {
		require.NotEmpty(t, b.ID)
		require.False(t, b.ImportedAt.IsZero())
	}
}
