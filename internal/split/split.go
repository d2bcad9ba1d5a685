// Package split partitions miniprot alignment GFF files by spidroin
// family before boundary inference. Lines are filtered in-process and
// written through verbatim.
package split

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// mRNALine reports whether the GFF line is a well-formed mRNA record and
// returns the spidroin family encoded in its Target attribute.
func mRNALine(line string) (family string, ok bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	fields := strings.Split(line, "\t")
	if len(fields) != 9 || fields[2] != "mRNA" {
		return "", false
	}

	for _, kv := range strings.Split(fields[8], ";") {
		value, found := strings.CutPrefix(kv, "Target=")
		if !found {
			continue
		}
		tokens := strings.Split(value, "|")
		if len(tokens) < 2 {
			return "", false
		}
		return tokens[len(tokens)-2], true
	}
	return "", false
}

// openInput opens a plain or gzipped GFF file for scanning. The returned
// close function releases the gzip reader and the file.
func openInput(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gff file: %w", err)
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		return gz, func() error {
			gz.Close()
			return f.Close()
		}, nil
	}
	return f, f.Close, nil
}

// Families scans a GFF file and returns the spidroin families present
// among its mRNA records, sorted by name.
func Families(path string) ([]string, error) {
	r, closeInput, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if family, ok := mRNALine(scanner.Text()); ok {
			seen[family] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gff file: %w", err)
	}

	families := make([]string, 0, len(seen))
	for family := range seen {
		families = append(families, family)
	}
	sort.Strings(families)
	return families, nil
}

// ByFamily writes one GFF file per spidroin family found in the input,
// named <genome>.mRNA.<family>.gff under outDir. Returns the written
// paths sorted by family name.
func ByFamily(path, outDir, genome string) ([]string, error) {
	r, closeInput, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lines := make(map[string][]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if family, ok := mRNALine(line); ok {
			lines[family] = append(lines[family], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gff file: %w", err)
	}

	families := make([]string, 0, len(lines))
	for family := range lines {
		families = append(families, family)
	}
	sort.Strings(families)

	var paths []string
	for _, family := range families {
		outPath := filepath.Join(outDir, fmt.Sprintf("%s.mRNA.%s.gff", genome, family))
		if err := writeLines(outPath, lines[family]); err != nil {
			return nil, err
		}
		paths = append(paths, outPath)
	}
	return paths, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create split file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
