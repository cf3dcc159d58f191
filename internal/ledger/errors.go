package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedDocument means no layout signature matched and the sheet
// could not be mapped as a legacy summary either. The file is skipped.
var ErrUnrecognizedDocument = errors.New("document layout not recognized")

// ErrNoSubAccounts means an account 90/91 trial balance had no sub-account
// rows. There is no safe fallback to the unsplit total: mixing revenue and
// cost without the split would corrupt profit.
var ErrNoSubAccounts = errors.New("trial balance has no sub-account rows")

// LayoutNotFoundError means the sheet was classified but the expected anchor
// row was not found inside the scanned window.
type LayoutNotFoundError struct {
	Type   DocumentType
	Anchor string
}

func (e *LayoutNotFoundError) Error() string {
	return fmt.Sprintf("layout for %s not found: expected anchor %q", e.Type, e.Anchor)
}

// MissingColumnsError lists mandatory legacy-summary columns that could not
// be mapped, in the user-facing (Russian header) vocabulary.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns missing: %s", strings.Join(e.Missing, ", "))
}
