package engine

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
)

// UnknownCompany is the sentinel returned when no company pattern matched.
const UnknownCompany = "Unknown"

var (
	// Legal-entity prefix followed by a quoted or bare name.
	companyRe = regexp.MustCompile(`(ООО|ИП|ЗАО|ОАО)\s*[«"']?([^«»"'\n;,]+?)[»"']?(?:\s{2,}|[\n;,]|$)`)
	buyerRe   = regexp.MustCompile(`(?i)покупатель[^:：]*[:：]?\s*(\S[^\n]*)`)

	dateRe       = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	periodSpanRe = regexp.MustCompile(`(?i)с\s+(\d{2}\.\d{2}\.\d{4})\s+по\s+(\d{2}\.\d{2}\.\d{4})`)
	forMonthRe   = regexp.MustCompile(`(?i)за\s+([А-Яа-яЁё]+)\s+(\d{4})`)
	yearRe       = regexp.MustCompile(`(19|20)\d{2}`)
)

const headerDateFormat = "02.01.2006"

// ExtractCompany finds the company name in the flattened text of a sheet's
// header block. It is not position sensitive. Returns inferred=true when
// only the "Unknown" sentinel could be produced.
func ExtractCompany(header string) (name string, inferred bool) {
	if m := companyRe.FindStringSubmatch(header); m != nil {
		return strings.TrimSpace(m[1] + " \"" + strings.TrimSpace(m[2]) + "\""), false
	}
	for _, line := range strings.Split(header, "\n") {
		if m := buyerRe.FindStringSubmatch(line); m != nil {
			fields := strings.Fields(m[1])
			if len(fields) > 0 {
				return strings.Trim(fields[0], "«»\"'"), false
			}
		}
	}
	return UnknownCompany, true
}

// ExtractPeriod finds the reporting period in the header text, trying rules
// in order of decreasing confidence:
//
//  1. explicit "с DD.MM.YYYY по DD.MM.YYYY"
//  2. any two DD.MM.YYYY tokens
//  3. "за <month-name> YYYY" collapsed to a one-month range
//  4. a 4-digit year in the filename collapsed to a full-year range
//
// The first matching rule wins. If none match, the documented placeholder
// period is returned; callers must treat it as "period unknown".
func ExtractPeriod(header, filename string) ledger.Period {
	if m := periodSpanRe.FindStringSubmatch(header); m != nil {
		if p, ok := spanPeriod(m[1], m[2]); ok {
			return p
		}
	}
	if dates := dateRe.FindAllString(header, 2); len(dates) == 2 {
		if p, ok := spanPeriod(dates[0], dates[1]); ok {
			return p
		}
	}
	if m := forMonthRe.FindStringSubmatch(header); m != nil {
		if mm, ok := MonthNumber(m[1]); ok {
			year, _ := strconv.Atoi(m[2])
			month, _ := strconv.Atoi(mm)
			return ledger.Month(year, time.Month(month))
		}
	}
	if m := yearRe.FindString(filepath.Base(filename)); m != "" {
		year, _ := strconv.Atoi(m)
		p := ledger.Year(year)
		p.Inferred = true
		return p
	}
	return ledger.PlaceholderPeriod()
}

func spanPeriod(from, to string) (ledger.Period, bool) {
	start, err := time.Parse(headerDateFormat, from)
	if err != nil {
		return ledger.Period{}, false
	}
	end, err := time.Parse(headerDateFormat, to)
	if err != nil {
		return ledger.Period{}, false
	}
	if end.Before(start) {
		start, end = end, start
	}
	return ledger.Period{Start: start, End: end}, true
}

// ParsePeriodCell parses the period column of a legacy summary sheet. The
// source writes either "MM.YYYY" or a full date; both collapse to a month.
func ParsePeriodCell(cell string) (ledger.Period, bool) {
	cell = strings.TrimSpace(cell)
	if t, err := time.Parse("01.2006", cell); err == nil {
		return ledger.Month(t.Year(), t.Month()), true
	}
	if t, err := time.Parse(headerDateFormat, cell); err == nil {
		return ledger.Month(t.Year(), t.Month()), true
	}
	return ledger.PlaceholderPeriod(), false
}
