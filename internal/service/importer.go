package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/engine"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/store"
)

// headerWindow is how many leading rows are scanned for company and period
// metadata before the data region starts.
const headerWindow = 15

// Importer turns workbook files into ledger records and persists them.
type Importer struct {
	Store          *store.Repo
	Log            zerolog.Logger
	VATRatePercent float64
	Extensions     []string
}

// FileError pairs a failed file with the reason it was rejected.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.File, e.Err) }

func (e FileError) Unwrap() error { return e.Err }

// StorageError marks a database-side failure. Unlike a bad file, it aborts
// the whole batch: every later file would hit the same store.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// BatchResult reports the outcome of a multi-file import.
type BatchResult struct {
	Imported int
	Records  int
	Failed   []FileError
}

// ImportFile loads one workbook, classifies it, extracts its records and
// appends them to the store. The batch is recorded in import history on
// success.
func (s *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	sheet, err := excel.Load(path)
	if err != nil {
		return 0, fmt.Errorf("load workbook: %w", err)
	}

	docType := engine.Classify(sheet)
	if docType == ledger.Unrecognized {
		return 0, ledger.ErrUnrecognizedDocument
	}

	head := sheet.HeadText(headerWindow)
	company, companyInferred := engine.ExtractCompany(head)
	period := engine.ExtractPeriod(head, filepath.Base(path))

	meta := engine.Meta{
		Company:         company,
		CompanyInferred: companyInferred,
		Period:          period,
		VATRatePercent:  s.VATRatePercent,
	}

	extractor, err := engine.ForType(docType)
	if err != nil {
		return 0, err
	}
	records, err := extractor.Extract(sheet, meta)
	if err != nil {
		return 0, err
	}

	count, err := s.Store.Append(ctx, records)
	if err != nil {
		return 0, &StorageError{Err: fmt.Errorf("append records: %w", err)}
	}
	if err := s.Store.RecordImport(ctx, filepath.Base(path), count); err != nil {
		return 0, &StorageError{Err: fmt.Errorf("record import: %w", err)}
	}

	s.Log.Info().
		Str("file", filepath.Base(path)).
		Str("doc_type", string(docType)).
		Str("company", company).
		Int("records", count).
		Msg("imported")
	return count, nil
}

// ImportBatch imports every file sequentially. A failure in one file is
// recorded and the rest of the batch continues; storage failures abort the
// batch since later files would fail the same way.
func (s *Importer) ImportBatch(ctx context.Context, paths []string) (BatchResult, error) {
	res := BatchResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		count, err := s.ImportFile(ctx, path)
		if err != nil {
			var storage *StorageError
			if errors.As(err, &storage) {
				return res, err
			}
			s.Log.Warn().Str("file", filepath.Base(path)).Err(err).Msg("file rejected")
			res.Failed = append(res.Failed, FileError{File: filepath.Base(path), Err: err})
			continue
		}
		res.Imported++
		res.Records += count
	}
	return res, nil
}

// CollectFiles walks the given path and returns every workbook file matching
// the configured extensions. A direct file path is returned as-is when its
// extension matches.
func (s *Importer) CollectFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if !s.matchesExtension(root) {
			return nil, fmt.Errorf("%s: not a workbook file", root)
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !s.matchesExtension(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func (s *Importer) matchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	exts := s.Extensions
	if len(exts) == 0 {
		exts = []string{".xlsx", ".xls"}
	}
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
