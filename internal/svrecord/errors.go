package svrecord

import "github.com/pkg/errors"

var errNoSVType = errors.New("missing SVTYPE INFO field")

func errInvariant(msg string) error {
	return errors.New(msg)
}
