package output

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/positions"
	"github.com/luxiangze/spider-silkome/internal/predict"
)

// auditColumns is the fixed header of the audit table.
var auditColumns = []string{
	"chr",
	"strand",
	"start_position",
	"start_count",
	"end_position",
	"end_count",
	"length",
	"score",
	"valid",
	"reason",
}

// AuditWriter accumulates every generated prediction, valid or not, and
// writes them as a CSV audit table. Rows are buffered because the final
// ordering (chromosome as text, strand, start, end) spans all groups.
type AuditWriter struct {
	w    *bufio.Writer
	rows []predict.Prediction
}

// NewAuditWriter creates an audit table writer.
func NewAuditWriter(w io.Writer) *AuditWriter {
	return &AuditWriter{w: bufio.NewWriter(w)}
}

// Add appends one prediction to the audit table.
func (aw *AuditWriter) Add(p predict.Prediction) {
	aw.rows = append(aw.rows, p)
}

// Rows returns the number of predictions added so far.
func (aw *AuditWriter) Rows() int {
	return len(aw.rows)
}

// Flush sorts the accumulated rows and writes the complete table. An
// empty prediction set still produces a header-only artifact.
func (aw *AuditWriter) Flush() error {
	sort.SliceStable(aw.rows, func(i, j int) bool {
		a, b := aw.rows[i], aw.rows[j]
		if a.Chr != b.Chr {
			return a.Chr < b.Chr
		}
		if a.Strand != b.Strand {
			return a.Strand < b.Strand
		}
		if a.StartPosition != b.StartPosition {
			return a.StartPosition < b.StartPosition
		}
		return a.EndPosition < b.EndPosition
	})

	if _, err := aw.w.WriteString(strings.Join(auditColumns, ",") + "\n"); err != nil {
		return err
	}

	for _, p := range aw.rows {
		fields := []string{
			p.Chr,
			p.Strand,
			blankIfZero(p.StartPosition),
			blankIfZero(int64(p.StartCount)),
			blankIfZero(p.EndPosition),
			blankIfZero(int64(p.EndCount)),
			blankIfZero(p.Length),
			blankIfZero(int64(p.Score)),
			strconv.FormatBool(p.Valid),
			p.Reason,
		}
		if _, err := aw.w.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return aw.w.Flush()
}

// blankIfZero renders zero numeric fields as empty values, matching the
// audit table convention for absent sides.
func blankIfZero(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// ExportCSV writes the full candidate-pair audit table for sets to path.
func (e *Exporter) ExportCSV(sets []*positions.Set, path string) error {
	var total, valid int

	err := writeAtomic(path, func(w io.Writer) error {
		aw := NewAuditWriter(w)
		for _, set := range sets {
			it := predict.Pairs(set, e.cfg)
			for {
				p, ok := it.Next()
				if !ok {
					break
				}
				aw.Add(p)
				total++
				if p.Valid {
					valid++
				}
			}
		}
		return aw.Flush()
	})
	if err != nil {
		return err
	}

	e.logger.Info("audit table saved",
		zap.String("path", path),
		zap.Int("combinations", total),
		zap.Int("valid", valid),
		zap.Int("invalid", total-valid))
	if total == 0 {
		e.logger.Warn("no predictions to export", zap.String("path", path))
	}

	return nil
}
