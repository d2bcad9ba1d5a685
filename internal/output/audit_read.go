package output

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/luxiangze/spider-silkome/internal/predict"
)

// ReadAudit reads an audit table back into predictions, e.g. for loading
// a finished run into the DuckDB store. Empty numeric fields map back to
// zero.
func ReadAudit(path string) ([]predict.Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit table: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read audit table: %w", err)
		}
		return nil, fmt.Errorf("audit table %s: missing header", path)
	}
	if scanner.Text() != strings.Join(auditColumns, ",") {
		return nil, fmt.Errorf("audit table %s: unexpected header %q", path, scanner.Text())
	}

	var preds []predict.Prediction
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != len(auditColumns) {
			return nil, fmt.Errorf("audit table %s line %d: expected %d fields, found %d",
				path, line, len(auditColumns), len(fields))
		}

		p := predict.Prediction{Chr: fields[0], Strand: fields[1], Reason: fields[9]}
		nums := []struct {
			value string
			dst   *int64
		}{
			{fields[2], &p.StartPosition},
			{fields[4], &p.EndPosition},
			{fields[6], &p.Length},
		}
		for _, n := range nums {
			if n.value == "" {
				continue
			}
			v, err := strconv.ParseInt(n.value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("audit table %s line %d: invalid number %q", path, line, n.value)
			}
			*n.dst = v
		}
		counts := []struct {
			value string
			dst   *int
		}{
			{fields[3], &p.StartCount},
			{fields[5], &p.EndCount},
			{fields[7], &p.Score},
		}
		for _, n := range counts {
			if n.value == "" {
				continue
			}
			v, err := strconv.Atoi(n.value)
			if err != nil {
				return nil, fmt.Errorf("audit table %s line %d: invalid number %q", path, line, n.value)
			}
			*n.dst = v
		}
		if fields[8] != "" {
			p.Valid, err = strconv.ParseBool(fields[8])
			if err != nil {
				return nil, fmt.Errorf("audit table %s line %d: invalid valid flag %q", path, line, fields[8])
			}
		}

		preds = append(preds, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit table: %w", err)
	}

	return preds, nil
}
