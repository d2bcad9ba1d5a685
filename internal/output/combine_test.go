package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCombineGFF_ResortsByNumericSeqID(t *testing.T) {
	dir := t.TempDir()

	a := writeTestFile(t, dir, "a.gff", strings.Join([]string{
		"##gff-version 3",
		"Chr10\tminiprot\tgene\t100\t900\t4\t+\t.\tID=MaSp1_0001;length=800;start_count=2;end_count=2",
		"Chr2\tminiprot\tgene\t500\t1500\t3\t-\t.\tID=MaSp1_0002;length=1000;start_count=1;end_count=2",
	}, "\n")+"\n")

	b := writeTestFile(t, dir, "b.gff", strings.Join([]string{
		"##gff-version 3",
		"Chr2\tminiprot\tgene\t200\t1100\t2\t+\t.\tID=MiSp_0001;length=900;start_count=1;end_count=1",
	}, "\n")+"\n")

	out := filepath.Join(dir, "combined.gff")
	n, err := CombineGFF([]string{a, b}, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "##gff-version 3", lines[0])
	// Numeric seqid ordering: Chr2 rows (by start) before Chr10.
	assert.True(t, strings.HasPrefix(lines[1], "Chr2\tminiprot\tgene\t200"))
	assert.True(t, strings.HasPrefix(lines[2], "Chr2\tminiprot\tgene\t500"))
	assert.True(t, strings.HasPrefix(lines[3], "Chr10\tminiprot\tgene\t100"))
}

func TestCombineGFF_NonNumericSeqIDsAfterNumeric(t *testing.T) {
	dir := t.TempDir()

	a := writeTestFile(t, dir, "a.gff", strings.Join([]string{
		"##gff-version 3",
		"scaffold_x\tminiprot\tgene\t100\t900\t4\t+\t.\tID=MaSp1_0001;length=800;start_count=2;end_count=2",
		"Chr3\tminiprot\tgene\t100\t900\t4\t+\t.\tID=MaSp1_0002;length=800;start_count=2;end_count=2",
	}, "\n")+"\n")

	out := filepath.Join(dir, "combined.gff")
	_, err := CombineGFF([]string{a}, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Chr3\t"))
	assert.True(t, strings.HasPrefix(lines[2], "scaffold_x\t"))
}

func TestCombineGFF_RejectsMalformedRecord(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.gff", "##gff-version 3\nChr1\tonly\tthree\n")

	_, err := CombineGFF([]string{a}, filepath.Join(dir, "out.gff"))
	assert.Error(t, err)
}

func TestCombineCSV_SingleHeader(t *testing.T) {
	dir := t.TempDir()
	header := strings.Join(auditColumns, ",")

	a := writeTestFile(t, dir, "a.csv",
		header+"\nChr1,+,100,3,400,5,300,8,true,valid\n")
	b := writeTestFile(t, dir, "b.csv",
		header+"\nChr2,-,200,1,900,2,700,3,true,valid\n")

	out := filepath.Join(dir, "combined.csv")
	n, err := CombineCSV([]string{a, b}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, header, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Chr1,"))
	assert.True(t, strings.HasPrefix(lines[2], "Chr2,"))
}

func TestCombineCSV_RejectsForeignHeader(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.csv", "wrong,header\n")

	_, err := CombineCSV([]string{a}, filepath.Join(dir, "out.csv"))
	assert.Error(t, err)
}
