package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/duckdb"
	"github.com/luxiangze/spider-silkome/internal/gff"
	"github.com/luxiangze/spider-silkome/internal/output"
	"github.com/luxiangze/spider-silkome/internal/positions"
	"github.com/luxiangze/spider-silkome/internal/predict"
)

func runPredict(args []string) int {
	initViper()
	defaults := configDefaults()

	fs := flag.NewFlagSet("predict", flag.ExitOnError)

	var (
		positiveThreshold float64
		minLength         int64
		maxLength         int64
		extensionLength   int64
		format            string
		spidroin          string
		outputFile        string
		dbPath            string
		genome            string
	)

	fs.Float64Var(&positiveThreshold, "positive-threshold", defaults.PositiveThreshold, "Minimum Positive fraction for an alignment to vote")
	fs.Int64Var(&minLength, "min-length", defaults.MinLength, "Minimum gene length (inclusive)")
	fs.Int64Var(&maxLength, "max-length", defaults.MaxLength, "Maximum gene length (inclusive)")
	fs.Int64Var(&extensionLength, "extension-length", defaults.ExtensionLength, "Extension for one-sided fallback predictions")
	fs.StringVar(&format, "f", output.FormatCSV, "Output format: csv (audit table) or gff (gene calls)")
	fs.StringVar(&format, "format", output.FormatCSV, "Output format: csv (audit table) or gff (gene calls)")
	fs.StringVar(&spidroin, "spidroin", "", "Spidroin family label for gene identifiers (default: derived from input name)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: derived from input name)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: derived from input name)")
	fs.StringVar(&dbPath, "duckdb", "", "Also record predictions in this DuckDB store (optional)")
	fs.StringVar(&genome, "genome", "", "Genome name recorded in the DuckDB store")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Predict spidroin gene boundaries from miniprot alignment evidence.

Usage:
  spidercall predict [options] <input-gff>

Arguments:
  <input-gff>  Per-family miniprot mRNA GFF (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  spidercall predict L_hesperus.mRNA.MaSp1.gff
  spidercall predict -f gff --spidroin MaSp1 -o MaSp1.combined.gff L_hesperus.mRNA.MaSp1.gff
  spidercall predict --min-length 500 --max-length 50000 input.gff
  spidercall predict --duckdb runs.duckdb --genome L_hesperus L_hesperus.mRNA.MaSp1.gff
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	inputPath := fs.Arg(0)

	if outputFile == "" {
		outputFile = defaultOutputPath(inputPath, format)
		if outputFile == "" {
			fmt.Fprintf(os.Stderr, "Error: --output is required when reading stdin\n")
			return ExitUsage
		}
	}

	if spidroin == "" {
		spidroin = familyFromPath(inputPath)
	}

	logger := newLogger()
	defer logger.Sync()

	cfg := predict.Config{
		PositiveThreshold: positiveThreshold,
		MinLength:         minLength,
		MaxLength:         maxLength,
		ExtensionLength:   extensionLength,
	}

	parser, err := gff.NewParser(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer parser.Close()

	records, err := parser.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	sets, err := positions.Extract(records, cfg.PositiveThreshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	logger.Info("extracted boundary votes",
		zap.Int("records", len(records)),
		zap.Int("groups", len(sets)))

	exporter := output.NewExporter(cfg)
	exporter.SetLogger(logger)

	if err := exporter.Export(sets, format, spidroin, outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	if dbPath != "" {
		if err := storePredictions(dbPath, genome, spidroin, sets, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	return ExitSuccess
}

// storePredictions records every generated prediction for the run in the
// DuckDB store.
func storePredictions(dbPath, genome, spidroin string, sets []*positions.Set, cfg predict.Config, logger *zap.Logger) error {
	if genome == "" {
		return fmt.Errorf("--genome is required with --duckdb")
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	inserted := 0
	for _, set := range sets {
		it := predict.Pairs(set, cfg)
		for {
			p, ok := it.Next()
			if !ok {
				break
			}
			if err := store.InsertPrediction(genome, spidroin, p); err != nil {
				return err
			}
			inserted++
		}
	}

	logger.Info("predictions stored",
		zap.String("db", dbPath),
		zap.String("genome", genome),
		zap.Int("predictions", inserted))
	return nil
}

// defaultOutputPath derives the artifact path from the input name the way
// the curation pipeline lays out its files. Returns "" for stdin.
func defaultOutputPath(inputPath, format string) string {
	if inputPath == "-" {
		return ""
	}
	base := strings.TrimSuffix(inputPath, ".gz")
	base = strings.TrimSuffix(base, ".gff")
	if format == output.FormatGFF {
		return base + ".combined.gff"
	}
	return base + ".csv"
}

// familyFromPath extracts the spidroin family from a per-family file name
// like <genome>.mRNA.<family>.gff. Returns "" when the name has no family
// segment.
func familyFromPath(inputPath string) string {
	if inputPath == "-" {
		return ""
	}
	stem := filepath.Base(inputPath)
	stem = strings.TrimSuffix(stem, ".gz")
	stem = strings.TrimSuffix(stem, ".gff")
	idx := strings.LastIndex(stem, ".")
	if idx < 0 {
		return ""
	}
	return stem[idx+1:]
}
