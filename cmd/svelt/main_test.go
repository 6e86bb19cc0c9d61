package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drtconway/svelt/internal/mergeopts"
)

const mainTestInputA = `##fileformat=VCFv4.2
##contig=<ID=chr1,length=1000000>
##INFO=<ID=SVTYPE,Number=1,Type=String,Description="Type of structural variant">
##INFO=<ID=END,Number=1,Type=Integer,Description="End position">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1
chr1	1000	svA	A	<DEL>	30	PASS	SVTYPE=DEL;END=2000	GT	0/1
`

func TestRunWritesMergedOutputFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "a.vcf")
	if err := os.WriteFile(inPath, []byte(mainTestInputA), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.vcf")

	code := run([]string{inPath}, outPath, "", "", mergeopts.Default)
	if code != 0 {
		t.Fatalf("run returned exit code %d", code)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "chr1\t1000") {
		t.Fatalf("expected merged record in output, got:\n%s", out)
	}
}

func TestRunFailsOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{filepath.Join(dir, "missing.vcf")}, "", "", "", mergeopts.Default)
	if code != 3 {
		t.Fatalf("expected exit code 3 for unreadable input, got %d", code)
	}
}

func TestRunWritesMergeTable(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "a.vcf")
	if err := os.WriteFile(inPath, []byte(mainTestInputA), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.vcf")
	tablePath := filepath.Join(dir, "table.tsv")

	code := run([]string{inPath}, outPath, "", tablePath, mergeopts.Default)
	if code != 0 {
		t.Fatalf("run returned exit code %d", code)
	}

	data, err := os.ReadFile(tablePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "output_row_id\tinput_id\tinput_row_id\tcriterion") {
		t.Fatalf("expected merge table header, got:\n%s", string(data))
	}
}
