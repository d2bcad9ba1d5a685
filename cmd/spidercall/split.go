package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/split"
)

func runSplit(args []string) int {
	fs := flag.NewFlagSet("split", flag.ExitOnError)

	var (
		outDir   string
		genome   string
		listOnly bool
	)

	fs.StringVar(&outDir, "o", "", "Output directory (default: input file directory)")
	fs.StringVar(&outDir, "output", "", "Output directory (default: input file directory)")
	fs.StringVar(&genome, "genome", "", "Genome name used in output file names (default: derived from input name)")
	fs.BoolVar(&listOnly, "list", false, "Only list spidroin families present, write nothing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Partition a miniprot mRNA GFF by spidroin family.

Writes one <genome>.mRNA.<family>.gff per family found in the input.

Usage:
  spidercall split [options] <input-gff>

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  spidercall split L_hesperus.mRNA.gff
  spidercall split --list L_hesperus.mRNA.gff
  spidercall split -o families/ --genome L_hesperus alignments.gff.gz
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

	if listOnly {
		families, err := split.Families(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		for _, family := range families {
			fmt.Println(family)
		}
		return ExitSuccess
	}

	if outDir == "" {
		outDir = filepath.Dir(inputPath)
	}
	if genome == "" {
		genome = genomeFromPath(inputPath)
	}

	logger := newLogger()
	defer logger.Sync()

	paths, err := split.ByFamily(inputPath, outDir, genome)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	logger.Info("split by spidroin family",
		zap.String("genome", genome),
		zap.Int("families", len(paths)))
	for _, p := range paths {
		fmt.Println(p)
	}

	return ExitSuccess
}

// genomeFromPath derives the genome name from an input file name like
// <genome>.mRNA.gff.
func genomeFromPath(inputPath string) string {
	stem := filepath.Base(inputPath)
	stem = strings.TrimSuffix(stem, ".gz")
	stem = strings.TrimSuffix(stem, ".gff")
	stem = strings.TrimSuffix(stem, ".mRNA")
	return stem
}
