package output

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/positions"
	"github.com/luxiangze/spider-silkome/internal/predict"
)

// Fixed columns of emitted gene records.
const (
	gffVersionHeader = "##gff-version 3"
	gffSource        = "miniprot"
	gffType          = "gene"
	gffPhase         = "."
)

// GeneWriter writes accepted predictions as GFF3 gene records. Gene
// identifiers are assigned sequentially in emission order and formatted
// as <label>_<4-digit zero-padded sequence>.
type GeneWriter struct {
	w      *bufio.Writer
	label  string
	nextID int
}

// NewGeneWriter creates a gene GFF writer using label as the identifier
// namespace.
func NewGeneWriter(w io.Writer, label string) *GeneWriter {
	return &GeneWriter{w: bufio.NewWriter(w), label: label, nextID: 1}
}

// WriteHeader writes the GFF version declaration.
func (gw *GeneWriter) WriteHeader() error {
	_, err := gw.w.WriteString(gffVersionHeader + "\n")
	return err
}

// Write emits one accepted prediction as a gene record and assigns it the
// next sequential identifier. Identifier and note text must not contain
// ';', '=' or tab characters; attribute values are not escaped.
func (gw *GeneWriter) Write(p predict.Prediction) error {
	attrs := fmt.Sprintf("ID=%s_%04d;length=%d;start_count=%d;end_count=%d",
		gw.label, gw.nextID, p.Length, p.StartCount, p.EndCount)
	if p.Fallback() {
		attrs += ";note=" + p.Reason
	}
	gw.nextID++

	_, err := fmt.Fprintf(gw.w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
		p.Chr, gffSource, gffType, p.StartPosition, p.EndPosition,
		p.Score, p.Strand, gffPhase, attrs)
	return err
}

// Written returns the number of gene records emitted so far.
func (gw *GeneWriter) Written() int {
	return gw.nextID - 1
}

// Flush flushes buffered records to the underlying writer.
func (gw *GeneWriter) Flush() error {
	return gw.w.Flush()
}

// ExportGFF writes the accepted predictions for sets to path as GFF3 gene
// records. Emission order follows the vote-set order (numeric chromosome
// value, then strand), then start and end position within each set.
func (e *Exporter) ExportGFF(sets []*positions.Set, label, path string) error {
	var genes int

	err := writeAtomic(path, func(w io.Writer) error {
		gw := NewGeneWriter(w, label)
		if err := gw.WriteHeader(); err != nil {
			return err
		}
		for _, set := range sets {
			it := predict.Pairs(set, e.cfg)
			for {
				p, ok := it.Next()
				if !ok {
					break
				}
				if !p.Accepted() {
					if p.Valid {
						e.logger.Debug("skipping nested window",
							zap.String("chr", p.Chr),
							zap.Int64("start", p.StartPosition),
							zap.Int64("end", p.EndPosition),
							zap.String("reason", p.EffectiveReason()))
					}
					continue
				}
				if err := gw.Write(p); err != nil {
					return err
				}
			}
		}
		genes = gw.Written()
		return gw.Flush()
	})
	if err != nil {
		return err
	}

	e.logger.Info("gene GFF saved",
		zap.String("path", path),
		zap.Int("genes", genes))

	return nil
}
