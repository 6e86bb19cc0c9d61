// Package mergeopts holds the matcher's tunable thresholds, shaped after
// fusion.Opts/fusion.DefaultOpts's plain-struct-plus-defaults pattern.
package mergeopts

// Opts parameterises the matching relation (spec.md §4.2, §4.4).
type Opts struct {
	// PosWindow bounds |Δstart| and |Δend| for non-BND rule 2, and |Δend|
	// for BND rule 2/3.
	PosWindow int
	// FarWindow bounds |Δend2| for BND rule 2/3.
	FarWindow int
	// LengthRatio is the minimum min(len1,len2)/max(len1,len2) for rule 2.
	LengthRatio float64
	// FlipWindow is the half-width of the reference context window compared
	// by the BND flipper (spec.md §4.4, "F").
	FlipWindow int
}

// Default holds the spec's literal defaults (spec.md §4.2, §4.4).
var Default = Opts{
	PosWindow:   25,
	FarWindow:   150,
	LengthRatio: 0.9,
	FlipWindow:  50,
}
