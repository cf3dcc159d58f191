package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

func sheetOf(rows ...[]string) *excel.Sheet {
	return &excel.Sheet{File: "test.xlsx", Rows: rows}
}

func TestClassifyKnownTypes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  ledger.DocumentType
	}{
		{"Книга покупок за 1 квартал 2024", ledger.PurchaseLedger},
		{"Книга продаж с 01.01.2024 по 31.03.2024", ledger.SalesLedger},
		{"Оборотно-сальдовая ведомость по счету 19 за 2024", ledger.TrialBalanceVAT},
		{"Оборотно-сальдовая ведомость по счету 41 за 2024", ledger.TrialBalanceGoods},
		{"Оборотно-сальдовая ведомость по счету 44.01", ledger.TrialBalanceSalesExpense},
		{"Оборотно-сальдовая ведомость по счету 90 за март", ledger.TrialBalanceRevenue},
		{"Оборотно-сальдовая ведомость по счету 91", ledger.TrialBalanceOther},
		{"Отчет по продажам за 2024 год", ledger.MonthlySalesReport},
	}
	for _, tc := range cases {
		got := Classify(sheetOf([]string{tc.title}))
		require.Equal(t, tc.want, got, "title %q", tc.title)
	}
}

func TestClassifyAccountPriority(t *testing.T) {
	t.Parallel()

	// A VAT trial balance that also mentions account 41 in a subtitle
	// resolves to account 19: lower accounts are checked first.
	s := sheetOf(
		[]string{"Оборотно-сальдовая ведомость по счету 19"},
		[]string{"в корреспонденции со счетом 41"},
	)
	require.Equal(t, ledger.TrialBalanceVAT, Classify(s))
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	s := sheetOf([]string{"Книга продаж за 2024"})
	first := Classify(s)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Classify(s))
	}
}

func TestClassifyLegacySummary(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]string{"Сводный отчет"},
		[]string{"Период", "Компания", "Товарная группа", "Номенклатура", "Выручка (с НДС)", "НДС в выручке", "Себестоимость", "НДС К УПЛАТЕ", "Оборот (кол-во)"},
	)
	require.Equal(t, ledger.LegacySummary, Classify(s))
}

func TestClassifyLegacySummaryWithMissingColumns(t *testing.T) {
	t.Parallel()

	// Enough headers to recognize the shape, but mandatory columns absent.
	// Still classified legacy; extraction reports the missing columns.
	s := sheetOf(
		[]string{"Период", "Компания", "Номенклатура", "Выручка (с НДС)"},
	)
	require.Equal(t, ledger.LegacySummary, Classify(s))
}

func TestClassifyUnrecognized(t *testing.T) {
	t.Parallel()

	s := sheetOf(
		[]string{"Протокол совещания"},
		[]string{"Присутствовали", "Решили"},
	)
	require.Equal(t, ledger.Unrecognized, Classify(s))
}
