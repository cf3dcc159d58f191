package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/logger"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/store"
)

func newImporter(t *testing.T) *Importer {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return &Importer{
		Store:          store.NewRepo(db),
		Log:            logger.NewWithWriter(io.Discard),
		VATRatePercent: 20,
		Extensions:     []string{".xlsx"},
	}
}

func writeRows(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func salesLedgerRows() [][]interface{} {
	return [][]interface{}{
		{"Книга продаж с 01.02.2024 по 29.02.2024"},
		{`Продавец: ООО «Ромашка»`},
		{"№", "Дата", "Наименование покупателя", "Стоимость продаж с НДС", "Сумма НДС"},
		{"1", "2", "3", "4", "5"},
		{"1", "01.02.2024", "ООО Клиент", "120000", "20000"},
	}
}

func TestImportFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	imp := newImporter(t)
	dir := t.TempDir()

	path := writeRows(t, dir, "книга_продаж.xlsx", salesLedgerRows())

	count, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	records, err := imp.Store.Query(ctx, ledger.Filters{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, `ООО "Ромашка"`, records[0].Company)
	require.False(t, records[0].CompanyInferred)
	require.Equal(t, ledger.SalesLedger, records[0].DocType)
	require.Equal(t, 120000.0, records[0].Revenue)
	require.Equal(t, "2024-02-01", records[0].PeriodStart.Format("2006-01-02"))

	batches, err := imp.Store.ListImports(ctx)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Equal(t, "книга_продаж.xlsx", batches[0].Filename)
	require.Equal(t, 1, batches[0].RecordCount)
}

func TestImportFileUnrecognized(t *testing.T) {
	t.Parallel()
	imp := newImporter(t)

	path := writeRows(t, t.TempDir(), "протокол.xlsx", [][]interface{}{
		{"Протокол совещания"},
		{"Присутствовали", "Решили"},
	})
	_, err := imp.ImportFile(context.Background(), path)
	require.ErrorIs(t, err, ledger.ErrUnrecognizedDocument)
}

func TestImportBatchIsolatesFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	imp := newImporter(t)
	dir := t.TempDir()

	good1 := writeRows(t, dir, "книга_продаж.xlsx", salesLedgerRows())
	bad := filepath.Join(dir, "битый.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("это не workbook"), 0o644))
	good2 := writeRows(t, dir, "сводный_отчет.xlsx", [][]interface{}{
		{"Период", "Компания", "Товарная группа", "Номенклатура", "Выручка (с НДС)", "НДС в выручке", "Себестоимость", "НДС К УПЛАТЕ", "Оборот (кол-во)"},
		{"02.2024", `ООО "Вектор"`, "Электроника", "Кабель", "120000", "20000", "70000", "20000", "40"},
	})

	res, err := imp.ImportBatch(ctx, []string{good1, bad, good2})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 2, res.Records)
	require.Len(t, res.Failed, 1)
	require.Equal(t, "битый.xlsx", res.Failed[0].File)

	records, err := imp.Store.Query(ctx, ledger.Filters{})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestImportBatchAbortsOnStorageFailure(t *testing.T) {
	t.Parallel()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	require.NoError(t, db.Close())

	imp := &Importer{
		Store:          store.NewRepo(db),
		Log:            logger.NewWithWriter(io.Discard),
		VATRatePercent: 20,
	}
	dir := t.TempDir()
	a := writeRows(t, dir, "a.xlsx", salesLedgerRows())
	b := writeRows(t, dir, "b.xlsx", salesLedgerRows())

	res, err := imp.ImportBatch(context.Background(), []string{a, b})
	var storage *StorageError
	require.ErrorAs(t, err, &storage)
	require.Zero(t, res.Imported)
	require.Empty(t, res.Failed)
}

func TestCollectFiles(t *testing.T) {
	t.Parallel()
	imp := newImporter(t)
	dir := t.TempDir()

	writeRows(t, dir, "a.xlsx", salesLedgerRows())
	sub := filepath.Join(dir, "вложенная")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeRows(t, sub, "b.xlsx", salesLedgerRows())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("x"), 0o644))

	files, err := imp.CollectFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	single, err := imp.CollectFiles(filepath.Join(dir, "a.xlsx"))
	require.NoError(t, err)
	require.Len(t, single, 1)

	_, err = imp.CollectFiles(filepath.Join(dir, "note.txt"))
	require.Error(t, err)
}
