// Package engine classifies accounting export sheets and extracts canonical
// ledger records from them.
package engine

import (
	"math"
	"strconv"
	"strings"
)

// monthStems maps the first three letters of a Cyrillic month name to the
// two-digit month number. Matching on stems tolerates case endings
// ("января", "январь", "янв.").
var monthStems = []struct {
	stem  string
	month string
}{
	{"янв", "01"},
	{"фев", "02"},
	{"мар", "03"},
	{"апр", "04"},
	{"май", "05"},
	{"мая", "05"},
	{"июн", "06"},
	{"июл", "07"},
	{"авг", "08"},
	{"сен", "09"},
	{"окт", "10"},
	{"ноя", "11"},
	{"дек", "12"},
}

// numberReplacer maps the separators and minus variants seen in source
// exports to ASCII before parsing.
var numberReplacer = strings.NewReplacer(
	" ", "",
	"\t", "",
	" ", "", // no-break space, the usual 1C thousands separator
	" ", "",
	" ", "",
	"−", "-", // minus sign
	"–", "-", // en dash
	"—", "-", // em dash
	"₽", "",
	"руб.", "",
	"руб", "",
)

// CleanNumber converts an untrusted cell value to a float64. It is a total
// function: empty, dash-only, and unparseable input all yield 0. Extractors
// call it on thousands of cells per file, so a bad cell must never abort an
// import.
func CleanNumber(raw string) float64 {
	s := numberReplacer.Replace(strings.TrimSpace(raw))
	if s == "" || s == "-" {
		return 0
	}
	// Both separators present: commas are thousands groups. Comma alone is
	// the decimal point.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" || s == "-" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CleanQuantity converts a cell to a non-negative integer count.
// Invalid and negative input yields 0.
func CleanQuantity(raw string) int64 {
	n := int64(math.Round(CleanNumber(raw)))
	if n < 0 {
		return 0
	}
	return n
}

// MonthNumber finds a Cyrillic month-name stem in text and returns the
// two-digit month. When no stem matches it returns "01" with ok=false; the
// caller must mark the result as inferred.
func MonthNumber(text string) (mm string, ok bool) {
	t := strings.ToLower(text)
	for _, m := range monthStems {
		if strings.Contains(t, m.stem) {
			return m.month, true
		}
	}
	return "01", false
}
