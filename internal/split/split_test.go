package split

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testGFF = `##gff-version 3
Chr1	miniprot	mRNA	1000	4500	2416	+	.	ID=MP000001;Rank=1;Identity=0.95;Positive=0.98;Target=silkome-1|Trichonephila_clavata|MaSp1|NTD 1 152
Chr1	miniprot	CDS	1000	4500	2416	+	.	ID=MP000001;Target=silkome-1|Trichonephila_clavata|MaSp1|NTD 1 152
Chr2	miniprot	mRNA	200	800	512	-	.	ID=MP000002;Rank=1;Identity=0.91;Positive=0.88;Target=silkome-2|Trichonephila_clavata|MiSp|CTD 3 110
Chr3	miniprot	mRNA	100	700	410	+	.	ID=MP000003;Rank=2;Identity=0.85;Positive=0.81;Target=silkome-3|Trichonephila_clavata|MaSp1|CTD 5 120
`

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "genome.mRNA.gff")
	if err := os.WriteFile(path, []byte(testGFF), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestFamilies(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	families, err := Families(input)
	if err != nil {
		t.Fatalf("Families: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("Expected 2 families, got %v", families)
	}
	if families[0] != "MaSp1" || families[1] != "MiSp" {
		t.Errorf("Expected [MaSp1 MiSp], got %v", families)
	}
}

func TestByFamily(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	outDir := filepath.Join(dir, "families")

	paths, err := ByFamily(input, outDir, "genome")
	if err != nil {
		t.Fatalf("ByFamily: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 output files, got %v", paths)
	}

	masp := filepath.Join(outDir, "genome.mRNA.MaSp1.gff")
	if paths[0] != masp {
		t.Errorf("Expected %s, got %s", masp, paths[0])
	}

	data, err := os.ReadFile(masp)
	if err != nil {
		t.Fatalf("read MaSp1 output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 MaSp1 mRNA lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "|MaSp1|") {
			t.Errorf("Line leaked into wrong family: %s", line)
		}
		if strings.Split(line, "\t")[2] != "mRNA" {
			t.Errorf("Non-mRNA line retained: %s", line)
		}
	}

	misp, err := os.ReadFile(filepath.Join(outDir, "genome.mRNA.MiSp.gff"))
	if err != nil {
		t.Fatalf("read MiSp output: %v", err)
	}
	if !strings.Contains(string(misp), "MP000002") {
		t.Errorf("MiSp output missing its record: %s", misp)
	}
}

func TestMRNALine(t *testing.T) {
	family, ok := mRNALine("Chr1\tminiprot\tmRNA\t1\t2\t3\t+\t.\tID=x;Target=a|b|MaSp2|NTD 1 2")
	if !ok || family != "MaSp2" {
		t.Errorf("mRNALine = %q, %v; want MaSp2, true", family, ok)
	}

	if _, ok := mRNALine("# comment"); ok {
		t.Error("Comment lines must not classify")
	}
	if _, ok := mRNALine("Chr1\tminiprot\tCDS\t1\t2\t3\t+\t.\tID=x;Target=a|b|c|NTD 1 2"); ok {
		t.Error("CDS lines must not classify")
	}
	if _, ok := mRNALine("Chr1\tminiprot\tmRNA\t1\t2\t3\t+\t.\tID=x"); ok {
		t.Error("Lines without Target must not classify")
	}
}
