package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxiangze/spider-silkome/internal/positions"
	"github.com/luxiangze/spider-silkome/internal/predict"
)

func TestGeneWriter_RecordFormat(t *testing.T) {
	var buf bytes.Buffer
	gw := NewGeneWriter(&buf, "MaSp1")
	require.NoError(t, gw.WriteHeader())

	p := predict.Prediction{
		Chr: "Chr1", Strand: "+",
		StartPosition: 150, StartCount: 1,
		EndPosition: 400, EndCount: 5,
		Length: 250, Score: 6,
		Valid: true, Reason: predict.ReasonValid,
	}
	require.NoError(t, gw.Write(p))
	require.NoError(t, gw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "##gff-version 3", lines[0])
	assert.Equal(t,
		"Chr1\tminiprot\tgene\t150\t400\t6\t+\t.\tID=MaSp1_0001;length=250;start_count=1;end_count=5",
		lines[1])
}

func TestGeneWriter_SequentialPaddedIDs(t *testing.T) {
	var buf bytes.Buffer
	gw := NewGeneWriter(&buf, "MiSp")
	require.NoError(t, gw.WriteHeader())

	for i := 0; i < 3; i++ {
		p := predict.Prediction{
			Chr: "Chr1", Strand: "+",
			StartPosition: int64(100 + i), EndPosition: int64(400 + i),
			Length: 300, Score: 2, Valid: true, Reason: predict.ReasonValid,
		}
		require.NoError(t, gw.Write(p))
	}
	require.NoError(t, gw.Flush())

	out := buf.String()
	assert.Contains(t, out, "ID=MiSp_0001;")
	assert.Contains(t, out, "ID=MiSp_0002;")
	assert.Contains(t, out, "ID=MiSp_0003;")
	assert.Equal(t, 3, gw.Written())
}

func TestGeneWriter_FallbackNote(t *testing.T) {
	var buf bytes.Buffer
	gw := NewGeneWriter(&buf, "MaSp1")

	p := predict.Prediction{
		Chr: "Chr1", Strand: "+",
		StartPosition: 1, EndPosition: 500, EndCount: 2,
		Length: 499, Score: 2,
		Reason: predict.ReasonNoStart,
	}
	require.NoError(t, gw.Write(p))
	require.NoError(t, gw.Flush())

	assert.Contains(t, buf.String(),
		"ID=MaSp1_0001;length=499;start_count=0;end_count=2;note=no_start")
}

func TestExportGFF_PipelineScenario(t *testing.T) {
	// The wide pair (100, 400) contains start 150, so only (150, 400) is
	// emitted, numbered _0001.
	set := &positions.Set{Chr: "Chr1", Strand: "+",
		Start: map[int64]int{100: 3, 150: 1},
		End:   map[int64]int{400: 5}}

	dir := t.TempDir()
	path := filepath.Join(dir, "genes.gff")

	e := NewExporter(testConfig())
	require.NoError(t, e.ExportGFF([]*positions.Set{set}, "MaSp1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "##gff-version 3", lines[0])
	assert.Equal(t,
		"Chr1\tminiprot\tgene\t150\t400\t6\t+\t.\tID=MaSp1_0001;length=250;start_count=1;end_count=5",
		lines[1])
}

func TestExportGFF_NoStartFallbackEmitted(t *testing.T) {
	set := &positions.Set{Chr: "Chr1", Strand: "+",
		Start: map[int64]int{}, End: map[int64]int{500: 2}}

	cfg := testConfig()
	cfg.ExtensionLength = 1000

	dir := t.TempDir()
	path := filepath.Join(dir, "genes.gff")

	e := NewExporter(cfg)
	require.NoError(t, e.ExportGFF([]*positions.Set{set}, "MaSp1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data),
		"Chr1\tminiprot\tgene\t1\t500\t2\t+\t.\tID=MaSp1_0001;length=499;start_count=0;end_count=2;note=no_start")
}

func TestExportGFF_ExcludesInvalidPairs(t *testing.T) {
	set := &positions.Set{Chr: "Chr1", Strand: "+",
		Start: map[int64]int{100: 1},
		End:   map[int64]int{120: 1, 5000: 1}}

	dir := t.TempDir()
	path := filepath.Join(dir, "genes.gff")

	e := NewExporter(testConfig())
	require.NoError(t, e.ExportGFF([]*positions.Set{set}, "MaSp1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "##gff-version 3\n", string(data),
		"length-invalid pairs never reach the gene output")
}

func TestExport_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	e := NewExporter(testConfig())
	err := e.Export(nil, "tsv", "MaSp1", path)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file may be created for a bad selector")
}

func TestExport_GFFRequiresLabel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.gff")

	e := NewExporter(testConfig())
	err := e.Export(nil, FormatGFF, "", path)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_FeatureAcceptanceSubsetOfValid(t *testing.T) {
	// Every gene record emitted for a full-case group corresponds to an
	// audit row with valid=true.
	set := &positions.Set{Chr: "Chr1", Strand: "+",
		Start: map[int64]int{100: 3, 150: 1, 380: 1},
		End:   map[int64]int{400: 5, 900: 1}}

	cfg := testConfig()
	validWindows := make(map[string]bool)
	it := predict.Pairs(set, cfg)
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		if p.Valid {
			validWindows[windowKey(p)] = true
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "genes.gff")
	e := NewExporter(cfg)
	require.NoError(t, e.ExportGFF([]*positions.Set{set}, "MaSp1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		require.Len(t, fields, 9)
		assert.True(t, validWindows[fields[3]+"-"+fields[4]],
			"gene record %s-%s must be audit-valid", fields[3], fields[4])
	}
}

func windowKey(p predict.Prediction) string {
	return fmt.Sprintf("%d-%d", p.StartPosition, p.EndPosition)
}
