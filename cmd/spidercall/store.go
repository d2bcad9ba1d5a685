package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/duckdb"
	"github.com/luxiangze/spider-silkome/internal/output"
)

func runStore(args []string) int {
	fs := flag.NewFlagSet("store", flag.ExitOnError)

	var (
		dbPath   string
		genome   string
		spidroin string
	)

	fs.StringVar(&dbPath, "db", "", "DuckDB store path (required)")
	fs.StringVar(&genome, "genome", "", "Genome name for the stored run (required)")
	fs.StringVar(&spidroin, "spidroin", "", "Spidroin family for the stored run (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Load an audit table into a DuckDB prediction store.

Usage:
  spidercall store [options] <audit-csv>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  spidercall store --db runs.duckdb --genome L_hesperus --spidroin MaSp1 L_hesperus.mRNA.MaSp1.csv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if dbPath == "" || genome == "" || spidroin == "" {
		fmt.Fprintf(os.Stderr, "Error: --db, --genome and --spidroin are required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: audit table argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	preds, err := output.ReadAudit(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer store.Close()

	for _, p := range preds {
		if err := store.InsertPrediction(genome, spidroin, p); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}

	total, err := store.PredictionCount()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	logger.Info("audit table stored",
		zap.String("db", dbPath),
		zap.String("genome", genome),
		zap.String("spidroin", spidroin),
		zap.Int("inserted", len(preds)),
		zap.Int("total", total))

	return ExitSuccess
}
