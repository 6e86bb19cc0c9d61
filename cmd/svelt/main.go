// svelt merges structural-variant calls from multiple sorted VCF inputs into
// one VCF in which every output row represents a distinct underlying SV
// event, with per-input genotype columns.
//
// Usage: svelt merge [--out PATH] [--reference PATH] [--position-window N]
// [--far-window N] [--length-ratio F] [--write-merge-table PATH] INPUT...
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/drtconway/svelt/internal/mergeopts"
	"github.com/drtconway/svelt/internal/mergetable"
	"github.com/drtconway/svelt/internal/pipeline"
	"github.com/drtconway/svelt/internal/refseq"
	"github.com/drtconway/svelt/internal/vcfio"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
)

func usage() {
	os.Stderr.WriteString(`Usage:
  svelt merge [--out PATH] [--reference PATH] [--position-window N]
              [--far-window N] [--length-ratio F] [--write-merge-table PATH]
              INPUT...

merge reads one or more sorted, optionally bgzipped VCF files describing
structural variants, groups records that describe the same underlying event,
and writes a single merged VCF.
`)
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	flag.Usage = usage

	if len(os.Args) < 2 || os.Args[1] != "merge" {
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	outPath := fs.String("out", "", "output VCF path (default stdout)")
	referencePath := fs.String("reference", "", "reference FASTA path, required to enable flipped-BND matching (rule 3)")
	posWindow := fs.Int("position-window", mergeopts.Default.PosWindow, "max |delta start|/|delta end| for near matches")
	farWindow := fs.Int("far-window", mergeopts.Default.FarWindow, "max |delta end2| for BND near/flipped matches")
	lengthRatio := fs.Float64("length-ratio", mergeopts.Default.LengthRatio, "min length ratio for near matches")
	mergeTablePath := fs.String("write-merge-table", "", "optional path for a TSV of (output_row_id, input_id, input_row_id, criterion)")

	shutdown := grail.Init()
	defer shutdown()

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	opts := mergeopts.Opts{
		PosWindow:   *posWindow,
		FarWindow:   *farWindow,
		LengthRatio: *lengthRatio,
		FlipWindow:  mergeopts.Default.FlipWindow,
	}

	code := run(fs.Args(), *outPath, *referencePath, *mergeTablePath, opts)
	os.Exit(code)
}

func run(inputPaths []string, outPath, referencePath, mergeTablePath string, opts mergeopts.Opts) int {
	inputs := make([]*vcfio.Reader, 0, len(inputPaths))
	for _, p := range inputPaths {
		f, err := os.Open(p)
		if err != nil {
			log.Error.Printf("opening %s: %v", p, err)
			return 3
		}
		defer f.Close()
		rd, err := vcfio.NewReader(f, p)
		if err != nil {
			log.Error.Printf("reading %s: %v", p, err)
			return 3
		}
		inputs = append(inputs, rd)
	}

	var ref refseq.Provider
	if referencePath != "" {
		r, err := refseq.Open(referencePath)
		if err != nil {
			log.Error.Printf("opening reference %s: %v, disabling flipped-BND matching", referencePath, err)
		} else {
			ref = r
		}
	}

	out := os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			log.Error.Printf("creating %s: %v", outPath, err)
			return 3
		}
		defer f.Close()
		out = f
	}
	writer := vcfio.NewWriter(out, false)
	defer writer.Close()

	var table *mergetable.Writer
	if mergeTablePath != "" {
		tf, err := os.Create(mergeTablePath)
		if err != nil {
			log.Error.Printf("creating merge table %s: %v", mergeTablePath, err)
			return 3
		}
		defer tf.Close()
		table, err = mergetable.NewWriter(tf)
		if err != nil {
			log.Error.Printf("writing merge table header: %v", err)
			return 3
		}
		defer table.Close()
	}

	if err := pipeline.Run(context.Background(), inputs, writer, opts, ref, nil, table); err != nil {
		var fe *pipeline.FatalError
		if errors.As(err, &fe) {
			log.Error.Printf("%v", fe.Err)
			return fe.Code
		}
		log.Error.Printf("%v", err)
		return 1
	}
	return 0
}
