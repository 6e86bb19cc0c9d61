package svrecord

import (
	"strconv"
	"strings"

	"github.com/drtconway/svelt/internal/fingerprint"
	"github.com/drtconway/svelt/internal/svkind"
	"github.com/drtconway/svelt/internal/vcfio"
)

// Normalize decodes a raw VCF record into a typed SvRecord (spec.md §4.1). A
// non-nil error means the caller should demote the record to OTHER and pass
// it through unmerged (spec §7, error kinds 1-3); it is never fatal.
func Normalize(rec vcfio.Record, inputID, rowIndex int) (*Record, error) {
	r := &Record{
		InputID:     inputID,
		RowIndex:    rowIndex,
		Chrom:       rec.Chrom,
		Start:       rec.Pos,
		Qual:        rec.Qual,
		Filters:     rec.Filter,
		ID:          rec.ID,
		Ref:         rec.Ref,
		Alt:         rec.Alt,
		RawInfo:     rec.Info,
		RawInfoKeys: rec.SortedInfoKeys(),
		Genotypes:   extractGT(rec),
	}

	svtype, hasSVType := rec.Info["SVTYPE"]
	if !hasSVType {
		return demoteOther(r, rec), errNoSVType
	}
	kind := svkind.Parse(svtype)

	if alt, ok := fingerprint.AltHash(rec.Alt); ok {
		r.AltHash, r.HasAltHash = alt, true
		r.HasLiteralAlt = true
	}

	if kind == svkind.BND {
		chrom2, end2, orient, err := parseBND(rec.Alt)
		if err != nil {
			return demoteOther(r, rec), err
		}
		r.Kind = svkind.BND
		r.End = r.Start
		r.Length = 0
		r.BND = BND{Chrom2: chrom2, End2: end2, Orient: orient}
		if mh, ok := fingerprint.AltHash(mateAnchorSeq(rec.Alt)); ok {
			r.BND.MateSeqHash, r.BND.HasSeqHash = mh, true
		}
		return r, nil
	}

	end, err := deriveEnd(rec, kind)
	if err != nil {
		return demoteOther(r, rec), err
	}
	if end < r.Start {
		return demoteOther(r, rec), errInvariant("end < start after normalisation")
	}
	r.Kind = kind
	r.End = end
	r.Length = end - r.Start + 1
	if kind == svkind.INS {
		if svlen, ok := rec.Info["SVLEN"]; ok {
			if n, perr := strconv.Atoi(svlen); perr == nil {
				r.Length = absInt(n)
			}
		}
	}
	return r, nil
}

// demoteOther returns the OTHER-kind passthrough form of a record that
// failed normalisation, preserving its original fields for output.
func demoteOther(r *Record, rec vcfio.Record) *Record {
	r.Kind = svkind.OTHER
	r.End = rec.Pos
	r.Length = 0
	return r
}

func deriveEnd(rec vcfio.Record, kind svkind.Kind) (int, error) {
	if endStr, ok := rec.Info["END"]; ok {
		n, err := strconv.Atoi(endStr)
		if err != nil {
			return 0, errInvariant("INFO END is not an integer: " + endStr)
		}
		return n, nil
	}
	switch kind {
	case svkind.DEL, svkind.DUP, svkind.INV, svkind.CNV:
		svlen, ok := rec.Info["SVLEN"]
		if !ok {
			return 0, errInvariant("missing END and SVLEN for " + kind.String())
		}
		n, err := strconv.Atoi(svlen)
		if err != nil {
			return 0, errInvariant("INFO SVLEN is not an integer: " + svlen)
		}
		return rec.Pos + absInt(n) - 1, nil
	default: // INS, OTHER
		return rec.Pos, nil
	}
}

// mateAnchorSeq extracts the literal anchor-base run from a BND ALT (the
// portion outside the bracketed mate locus), used only to derive an optional
// identity hash for diagnostics; it is not part of the matching relation.
func mateAnchorSeq(alt string) string {
	out := make([]byte, 0, len(alt))
	for i := 0; i < len(alt); i++ {
		switch alt[i] {
		case 'A', 'C', 'G', 'T', 'N', 'a', 'c', 'g', 't', 'n':
			out = append(out, alt[i])
		}
	}
	return string(out)
}

// extractGT pulls the GT sub-field out of each sample column's colon-joined
// FORMAT value (spec.md §3: "genotypes: ordered list of per-sample genotype
// strings, one per sample column of input_id"). A sample with no GT key in
// FORMAT, or fewer sub-fields than FORMAT declares, contributes the missing
// genotype.
func extractGT(rec vcfio.Record) []string {
	if len(rec.Samples) == 0 {
		return nil
	}
	gtField := -1
	for i, f := range rec.Format {
		if f == "GT" {
			gtField = i
			break
		}
	}
	out := make([]string, len(rec.Samples))
	for i, s := range rec.Samples {
		if gtField < 0 {
			out[i] = "./."
			continue
		}
		parts := strings.Split(s, ":")
		if gtField < len(parts) {
			out[i] = parts[gtField]
		} else {
			out[i] = "./."
		}
	}
	return out
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
