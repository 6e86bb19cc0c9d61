package vcfio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const (
	// maxLineSize bounds the scanner buffer; SV VCF lines are short (no
	// long ALT sequences for symbolic types), but literal-ALT insertions
	// can be large, so this is generous like fasta.go's bufferInitSize.
	maxLineSize = 64 * 1024 * 1024
	gzipMagic0  = 0x1f
	gzipMagic1  = 0x8b
)

// Reader streams decoded Records from a VCF file, transparently
// decompressing gzip/bgzip input (bgzip is a valid, seekable gzip stream, so
// the same decompressor reads it sequentially without needing block index
// support).
type Reader struct {
	scanner *bufio.Scanner
	Header  Header
	lineNo  int
	path    string
	// pending buffers the remaining split alleles of a multi-allelic line
	// so Next() can return one Record at a time.
	pending []*Record
}

// NewReader opens a VCF reader, reading and parsing the header immediately.
func NewReader(r io.Reader, path string) (*Reader, error) {
	br := bufio.NewReaderSize(r, 1<<20)
	peek, err := br.Peek(2)
	var src io.Reader = br
	if err == nil && len(peek) == 2 && peek[0] == gzipMagic0 && peek[1] == gzipMagic1 {
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			return nil, errors.Wrapf(gzErr, "%s: opening gzip/bgzip stream", path)
		}
		src = gz
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	rd := &Reader{scanner: scanner, path: path}
	if err := rd.readHeader(); err != nil {
		return nil, errors.Wrapf(err, "%s: reading VCF header", path)
	}
	return rd, nil
}

func (r *Reader) readHeader() error {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.HasPrefix(line, "##") {
			parseMetaLine(&r.Header, line[2:])
			continue
		}
		if strings.HasPrefix(line, "#") {
			cols := strings.Split(line[1:], "\t")
			if len(cols) > 9 {
				r.Header.Samples = append([]string(nil), cols[9:]...)
			}
			return nil
		}
		return errors.Errorf("%s: data line encountered before #CHROM header", r.path)
	}
	if err := r.scanner.Err(); err != nil {
		return err
	}
	return errors.Errorf("%s: no #CHROM header line found", r.path)
}

func parseMetaLine(h *Header, body string) {
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		h.Other = append(h.Other, "##"+body)
		return
	}
	key, rest := body[:eq], body[eq+1:]
	if !strings.HasPrefix(rest, "<") || !strings.HasSuffix(rest, ">") {
		h.Other = append(h.Other, "##"+body)
		return
	}
	attrs := parseAttrs(rest[1 : len(rest)-1])
	switch key {
	case "contig":
		def := ContigDef{Name: attrs["ID"]}
		if l, ok := attrs["length"]; ok {
			if n, err := strconv.Atoi(l); err == nil {
				def.Length, def.HasLength = n, true
			}
		}
		h.Contigs = append(h.Contigs, def)
	case "FILTER":
		h.Filters = append(h.Filters, FilterDef{ID: attrs["ID"], Description: attrs["Description"]})
	case "INFO":
		h.Infos = append(h.Infos, InfoDef{ID: attrs["ID"], Number: attrs["Number"], Type: attrs["Type"], Description: attrs["Description"]})
	case "FORMAT":
		h.Formats = append(h.Formats, FormatDef{ID: attrs["ID"], Number: attrs["Number"], Type: attrs["Type"], Description: attrs["Description"]})
	default:
		h.Other = append(h.Other, "##"+body)
	}
}

// parseAttrs splits a "KEY=value,KEY2=\"quoted, value\"" attribute list,
// honouring double-quoted values that may themselves contain commas.
func parseAttrs(s string) map[string]string {
	out := make(map[string]string)
	var key strings.Builder
	var val strings.Builder
	inVal, inQuote := false, false
	flush := func() {
		if key.Len() > 0 {
			v := val.String()
			if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
				v = v[1 : len(v)-1]
			}
			out[key.String()] = v
		}
		key.Reset()
		val.Reset()
		inVal = false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			val.WriteByte(c)
		case c == '=' && !inVal && !inQuote:
			inVal = true
		case c == ',' && !inQuote:
			flush()
		case inVal:
			val.WriteByte(c)
		default:
			key.WriteByte(c)
		}
	}
	flush()
	return out
}

// Next returns the next Record, or (nil, io.EOF) at end of input. Malformed
// lines are reported via the returned error rather than panicking; the
// caller (the driver) decides whether to demote and continue.
func (r *Reader) Next() (*Record, error) {
	if len(r.pending) > 0 {
		rec := r.pending[0]
		r.pending = r.pending[1:]
		return rec, nil
	}
	for {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		r.lineNo++
		recs, err := parseDataLine(line, r.lineNo)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", r.path, r.lineNo, err)
		}
		if len(recs) == 0 {
			continue
		}
		if len(recs) > 1 {
			r.pending = append(r.pending, recs[1:]...)
		}
		return recs[0], nil
	}
}

func parseDataLine(line string, lineNo int) ([]*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, errors.Errorf("expected at least 8 columns, got %d", len(fields))
	}
	var format []string
	var rawSamples []string
	if len(fields) > 8 {
		format = strings.Split(fields[8], ":")
		rawSamples = fields[9:]
	}

	var qual *float64
	if fields[5] != "." && fields[5] != "" {
		q, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid QUAL %q", fields[5])
		}
		qual = &q
	}

	var filters []string
	if fields[6] != "." && fields[6] != "" {
		filters = strings.Split(fields[6], ";")
	}

	info, keys := parseAttrsOrdered(fields[7])

	alts := strings.Split(fields[4], ",")
	out := make([]*Record, 0, len(alts))
	for _, alt := range alts {
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid POS %q", fields[1])
		}
		out = append(out, &Record{
			Chrom:    fields[0],
			Pos:      pos,
			ID:       fields[2],
			Ref:      fields[3],
			Alt:      alt,
			Qual:     qual,
			Filter:   filters,
			Info:     info,
			InfoKeys: keys,
			Format:   format,
			Samples:  append([]string(nil), rawSamples...),
			LineNo:   lineNo,
		})
	}
	return out, nil
}

// parseAttrsOrdered parses a VCF INFO field ("K1=v1;K2;K3=v3") preserving
// declaration order, distinct from parseAttrs which handles the quoted,
// comma-delimited header <...> syntax.
func parseAttrsOrdered(s string) (map[string]string, []string) {
	info := make(map[string]string)
	if s == "" || s == "." {
		return info, nil
	}
	parts := strings.Split(s, ";")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if eq := strings.IndexByte(p, '='); eq >= 0 {
			k, v := p[:eq], p[eq+1:]
			info[k] = v
			keys = append(keys, k)
		} else {
			info[p] = ""
			keys = append(keys, p)
		}
	}
	return info, keys
}
