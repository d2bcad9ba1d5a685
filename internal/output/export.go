// Package output serializes gene-boundary predictions to the audit CSV
// and gene GFF3 formats.
package output

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/luxiangze/spider-silkome/internal/positions"
	"github.com/luxiangze/spider-silkome/internal/predict"
)

// Supported output format selectors.
const (
	FormatCSV = "csv"
	FormatGFF = "gff"
)

// ConfigError reports an unusable export configuration. It is raised
// before any artifact is touched.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Message
}

// Exporter serializes prediction streams for a set of vote groups.
type Exporter struct {
	cfg    predict.Config
	logger *zap.Logger
}

// NewExporter creates an exporter with the given thresholds.
func NewExporter(cfg predict.Config) *Exporter {
	return &Exporter{cfg: cfg, logger: zap.NewNop()}
}

// SetLogger sets the logger for run summaries.
func (e *Exporter) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Export writes the predictions for sets to path in the selected format.
// The format selector and the label requirement are validated before any
// file is created.
func (e *Exporter) Export(sets []*positions.Set, format, label, path string) error {
	switch format {
	case FormatCSV:
		return e.ExportCSV(sets, path)
	case FormatGFF:
		if label == "" {
			return &ConfigError{Message: "gff format requires a spidroin label"}
		}
		return e.ExportGFF(sets, label, path)
	default:
		return &ConfigError{Message: fmt.Sprintf("unsupported format %q, use %q or %q", format, FormatCSV, FormatGFF)}
	}
}

// writeAtomic writes an artifact through a temporary file and renames it
// into place, so an I/O failure never leaves a half-written artifact.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close output file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize output file: %w", err)
	}

	return nil
}
