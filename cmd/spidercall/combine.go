package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/output"
)

func runCombine(args []string) int {
	fs := flag.NewFlagSet("combine", flag.ExitOnError)

	var (
		format     string
		outputFile string
	)

	fs.StringVar(&format, "f", output.FormatGFF, "Input artifact format: gff or csv")
	fs.StringVar(&format, "format", output.FormatGFF, "Input artifact format: gff or csv")
	fs.StringVar(&outputFile, "o", "", "Output file (required)")
	fs.StringVar(&outputFile, "output", "", "Output file (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Merge per-family prediction artifacts into one per-genome file.

Gene GFF inputs are re-sorted by numeric chromosome value, then start
position, under a single version header. Audit CSV inputs are
concatenated under a single header in input order.

Usage:
  spidercall combine [options] <input>...

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  spidercall combine -o L_hesperus.gff L_hesperus.mRNA.*.combined.gff
  spidercall combine -f csv -o L_hesperus.csv L_hesperus.mRNA.*.csv
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if outputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --output is required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one input file required\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	var (
		n   int
		err error
	)
	switch format {
	case output.FormatGFF:
		n, err = output.CombineGFF(fs.Args(), outputFile)
	case output.FormatCSV:
		n, err = output.CombineCSV(fs.Args(), outputFile)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q, use gff or csv\n", format)
		return ExitUsage
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	logger.Info("combined artifacts",
		zap.String("path", outputFile),
		zap.Int("inputs", fs.NArg()),
		zap.Int("records", n))

	return ExitSuccess
}
