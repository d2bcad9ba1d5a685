// Package main provides the spidercall command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Parse global flags first
	flag.Parse()

	if showVersion {
		fmt.Printf("spidercall version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	// Check for subcommand
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "predict":
		return runPredict(args[1:])
	case "split":
		return runSplit(args[1:])
	case "combine":
		return runCombine(args[1:])
	case "store":
		return runStore(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `spidercall - Spidroin gene-boundary prediction

Usage:
  spidercall [options] <command> [arguments]

Commands:
  predict     Predict gene boundaries from a per-family miniprot GFF
  split       Partition a miniprot mRNA GFF by spidroin family
  combine     Merge per-family prediction artifacts for one genome
  store       Load an audit table into a DuckDB prediction store
  config      Manage spidercall configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Split alignments by spidroin family
  spidercall split --genome L_hesperus genome.mRNA.gff

  # Predict boundaries for one family, audit table output
  spidercall predict -f csv L_hesperus.mRNA.MaSp1.gff

  # Predict boundaries, gene GFF output
  spidercall predict -f gff --spidroin MaSp1 L_hesperus.mRNA.MaSp1.gff

  # Merge per-family gene calls
  spidercall combine -o L_hesperus.gff *.combined.gff

For more information on a command, use:
  spidercall <command> --help
`)
}

// newLogger builds the CLI logger. Components default to a no-op logger;
// the CLI swaps in a real one so runs report their summaries.
func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
