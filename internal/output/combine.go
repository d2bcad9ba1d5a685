package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/luxiangze/spider-silkome/internal/positions"
)

// combineRecord is one gene line read back from a per-family artifact.
type combineRecord struct {
	seqid string
	start int64
	line  string
}

// CombineGFF merges per-family gene GFF artifacts into a single file with
// one version header. Records are re-sorted by the numeric value extracted
// from the sequence id, then by start position; non-numeric sequence ids
// sort after numeric ones, by text. Returns the number of records written.
func CombineGFF(inputs []string, outPath string) (int, error) {
	var records []combineRecord

	for _, input := range inputs {
		f, err := os.Open(input)
		if err != nil {
			return 0, fmt.Errorf("open gff input: %w", err)
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			fields := strings.Split(line, "\t")
			if len(fields) != 9 {
				f.Close()
				return 0, fmt.Errorf("combine %s: expected 9 columns, found %d", input, len(fields))
			}
			start, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				f.Close()
				return 0, fmt.Errorf("combine %s: invalid start position %q", input, fields[3])
			}
			records = append(records, combineRecord{seqid: fields[0], start: start, line: line})
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return 0, fmt.Errorf("read gff input: %w", err)
		}
		f.Close()
	}

	sort.SliceStable(records, func(i, j int) bool {
		if c := positions.CompareChrom(records[i].seqid, records[j].seqid); c != 0 {
			return c < 0
		}
		return records[i].start < records[j].start
	})

	err := writeAtomic(outPath, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if _, err := bw.WriteString(gffVersionHeader + "\n"); err != nil {
			return err
		}
		for _, r := range records {
			if _, err := bw.WriteString(r.line + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// CombineCSV concatenates per-family audit tables under a single header.
// Row order within each input is preserved. Returns the number of data
// rows written.
func CombineCSV(inputs []string, outPath string) (int, error) {
	var rows []string

	for _, input := range inputs {
		f, err := os.Open(input)
		if err != nil {
			return 0, fmt.Errorf("open csv input: %w", err)
		}

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		first := true
		for scanner.Scan() {
			line := scanner.Text()
			if first {
				// Every input carries the same header; keep one copy.
				first = false
				if line != strings.Join(auditColumns, ",") {
					f.Close()
					return 0, fmt.Errorf("combine %s: unexpected header %q", input, line)
				}
				continue
			}
			if line == "" {
				continue
			}
			rows = append(rows, line)
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return 0, fmt.Errorf("read csv input: %w", err)
		}
		f.Close()
	}

	err := writeAtomic(outPath, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if _, err := bw.WriteString(strings.Join(auditColumns, ",") + "\n"); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := bw.WriteString(row + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}
