package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vaspull9-bit/BuhTuundOtchet/internal/config"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/excel"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/ledger"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/logger"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/service"
	"github.com/vaspull9-bit/BuhTuundOtchet/internal/store"
)

const usage = `usage: buhtuund <command> [flags]

commands:
  import <path>      import a workbook file or every workbook under a directory
  summary            print filtered revenue, VAT and profit totals
  template <path>    write an empty summary workbook with canonical headers
  history            list past imports
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	ctx := logger.WithContext(context.Background(), log)

	var code int
	switch os.Args[1] {
	case "import":
		code = runImport(ctx, cfg, os.Args[2:])
	case "summary":
		code = runSummary(ctx, cfg, os.Args[2:])
	case "template":
		code = runTemplate(os.Args[2:])
	case "history":
		code = runHistory(ctx, cfg)
	default:
		fmt.Fprint(os.Stderr, usage)
		code = 2
	}
	os.Exit(code)
}

func openStore(cfg config.Config) (*store.Repo, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store.NewRepo(db), func() { db.Close() }, nil
}

func runImport(ctx context.Context, cfg config.Config, args []string) int {
	log := logger.FromContext(ctx)
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: buhtuund import <file-or-directory>")
		return 2
	}

	repo, closeDB, err := openStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("storage unavailable")
		return 1
	}
	defer closeDB()

	importer := &service.Importer{
		Store:          repo,
		Log:            log,
		VATRatePercent: cfg.VAT.RatePercent,
		Extensions:     cfg.Import.Extensions,
	}

	files, err := importer.CollectFiles(args[0])
	if err != nil {
		log.Error().Err(err).Msg("collect files")
		return 1
	}
	if len(files) == 0 {
		fmt.Println("no workbook files found")
		return 0
	}

	res, err := importer.ImportBatch(ctx, files)
	if err != nil {
		log.Error().Err(err).Msg("import aborted")
		return 1
	}

	fmt.Printf("imported %d of %d files, %d records\n", res.Imported, len(files), res.Records)
	for _, fe := range res.Failed {
		fmt.Printf("  rejected %s: %v\n", fe.File, fe.Err)
	}
	if res.Imported == 0 && len(res.Failed) > 0 {
		return 1
	}
	return 0
}

func runSummary(ctx context.Context, cfg config.Config, args []string) int {
	log := logger.FromContext(ctx)
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	company := fs.String("company", "", "filter by company")
	group := fs.String("group", "", "filter by product group")
	docType := fs.String("type", "", "filter by document type")
	from := fs.String("from", "", "period start lower bound (YYYY-MM-DD)")
	to := fs.String("to", "", "period start upper bound (YYYY-MM-DD)")
	fs.Parse(args)

	filters := ledger.Filters{
		Company:      *company,
		ProductGroup: *group,
		DocType:      ledger.DocumentType(*docType),
	}
	var err error
	if filters.From, err = parseDateFlag(*from); err != nil {
		fmt.Fprintf(os.Stderr, "bad -from: %v\n", err)
		return 2
	}
	if filters.To, err = parseDateFlag(*to); err != nil {
		fmt.Fprintf(os.Stderr, "bad -to: %v\n", err)
		return 2
	}

	repo, closeDB, err := openStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("storage unavailable")
		return 1
	}
	defer closeDB()

	totals, err := repo.Totals(ctx, filters)
	if err != nil {
		log.Error().Err(err).Msg("totals")
		return 1
	}
	vat, err := repo.SummarizeVAT(ctx, filters)
	if err != nil {
		log.Error().Err(err).Msg("summarize vat")
		return 1
	}

	fmt.Printf("records:        %d\n", totals.Records)
	fmt.Printf("revenue:        %.2f\n", totals.Revenue)
	fmt.Printf("vat output:     %.2f\n", vat.Output)
	fmt.Printf("vat deductible: %.2f\n", vat.Input)
	fmt.Printf("vat payable:    %.2f\n", vat.Payable)
	fmt.Printf("net profit:     %.2f\n", totals.NetProfit)
	return 0
}

func runTemplate(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: buhtuund template <path.xlsx>")
		return 2
	}
	if err := excel.WriteTemplate(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "write template: %v\n", err)
		return 1
	}
	fmt.Printf("template written to %s\n", args[0])
	return 0
}

func runHistory(ctx context.Context, cfg config.Config) int {
	log := logger.FromContext(ctx)
	repo, closeDB, err := openStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("storage unavailable")
		return 1
	}
	defer closeDB()

	batches, err := repo.ListImports(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list imports")
		return 1
	}
	if len(batches) == 0 {
		fmt.Println("no imports yet")
		return 0
	}
	for _, b := range batches {
		fmt.Printf("%s  %-40s %5d records\n",
			b.ImportedAt.Format("2006-01-02 15:04"), b.Filename, b.RecordCount)
	}
	return 0
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
