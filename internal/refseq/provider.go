// Package refseq adapts encoding/fasta's Fasta reader into the
// reference-sequence provider the BND flipper requires for rule 3 (spec.md
// §4.2, §4.4), adding the window cache spec.md §9 calls an implementation
// freedom ("Reference caching"). The caching pattern mirrors
// fasta_indexed.go's mutex-guarded in-memory cache.
package refseq

import (
	"io"
	"os"
	"sync"

	"github.com/drtconway/svelt/encoding/fasta"
	"github.com/pkg/errors"
)

// Provider offers random-access fetches of reference sequence, 0-based
// half-open like fasta.Fasta.Get, matching spec.md §1's external-collaborator
// contract: "a reference-sequence provider offering random-access fetches on
// (contig, 0-based start, end)".
type Provider interface {
	Fetch(contig string, start0, end int) (string, error)
}

// Open loads a reference FASTA (and, if present alongside it, a .fai index)
// and returns a cached Provider. A missing or unreadable FASTA is returned as
// an error (cmd/svelt logs it and runs without rule 3); a missing index just
// falls back to the eager unindexed reader.
func Open(fastaPath string) (Provider, error) {
	f, err := os.Open(fastaPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening reference %s", fastaPath)
	}
	defer f.Close()

	var opts []fasta.Opt
	if idx, ierr := os.Open(fastaPath + ".fai"); ierr == nil {
		defer idx.Close()
		indexBytes, rerr := io.ReadAll(idx)
		if rerr == nil {
			opts = append(opts, fasta.OptIndex(indexBytes))
		}
	}

	fa, err := fasta.New(f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing reference %s", fastaPath)
	}
	return NewCached(fa), nil
}

type windowKey struct {
	contig       string
	start0, end0 int
}

// Cached wraps a fasta.Fasta with a window cache, making repeated rule-3
// fetches over the same locus cheap (spec.md §9, "reference caching").
type Cached struct {
	fa    fasta.Fasta
	mutex sync.Mutex
	cache map[windowKey]cacheEntry
}

type cacheEntry struct {
	seq string
	err error
}

// NewCached wraps fa with a window cache.
func NewCached(fa fasta.Fasta) *Cached {
	return &Cached{fa: fa, cache: make(map[windowKey]cacheEntry)}
}

// Fetch returns the 0-based half-open window [start0, end0) of contig,
// caching the result. A fetch past the end of the contig or against an
// unknown contig is reported as an error and treated by the caller as a
// reference-fetch miss (spec §7 error kind 4), not a fatal failure.
func (c *Cached) Fetch(contig string, start0, end0 int) (string, error) {
	key := windowKey{contig, start0, end0}

	c.mutex.Lock()
	if e, ok := c.cache[key]; ok {
		c.mutex.Unlock()
		return e.seq, e.err
	}
	c.mutex.Unlock()

	seq, err := c.fa.Get(contig, uint64(start0), uint64(end0))

	c.mutex.Lock()
	c.cache[key] = cacheEntry{seq: seq, err: err}
	c.mutex.Unlock()

	return seq, err
}
