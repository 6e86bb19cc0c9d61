package svrecord

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseBND decodes a breakend ALT string into (chrom2, end2, orient) per the
// VCF breakend grammar:
//
//	t[p[   -> PlusPlus   (piece extends right of p, read forward)
//	t]p]   -> PlusMinus
//	]p]t   -> MinusPlus
//	[p[t   -> MinusMinus
//
// where p = "chrom:pos" and t is the (ignored) anchor base(s).
func parseBND(alt string) (chrom2 string, end2 int, orient Orient, err error) {
	openBracket := strings.ContainsRune(alt, '[')
	closeBracket := strings.ContainsRune(alt, ']')
	if openBracket == closeBracket {
		return "", 0, 0, errors.Errorf("ALT %q does not contain exactly one bracket style", alt)
	}

	bracket := byte('[')
	if closeBracket {
		bracket = ']'
	}

	first := strings.IndexByte(alt, bracket)
	last := strings.LastIndexByte(alt, bracket)
	if first == last {
		return "", 0, 0, errors.Errorf("ALT %q: expected two bracket characters", alt)
	}
	mate := alt[first+1 : last]

	// t[p[ / t]p]: anchor base precedes the bracket.
	// ]p]t / [p[t: bracket precedes the anchor base (mate comes first).
	matePrecedesAnchor := first == 0

	colon := strings.LastIndexByte(mate, ':')
	if colon < 0 {
		return "", 0, 0, errors.Errorf("ALT %q: mate locus %q missing ':'", alt, mate)
	}
	chrom2 = mate[:colon]
	pos, perr := strconv.Atoi(mate[colon+1:])
	if perr != nil {
		return "", 0, 0, errors.Wrapf(perr, "ALT %q: invalid mate position", alt)
	}
	if chrom2 == "" {
		return "", 0, 0, errors.Errorf("ALT %q: empty mate chromosome", alt)
	}

	switch {
	case bracket == '[' && !matePrecedesAnchor: // t[p[
		orient = PlusPlus
	case bracket == ']' && !matePrecedesAnchor: // t]p]
		orient = PlusMinus
	case bracket == ']' && matePrecedesAnchor: // ]p]t
		orient = MinusPlus
	default: // '[' and matePrecedesAnchor: [p[t
		orient = MinusMinus
	}
	return chrom2, pos, orient, nil
}
