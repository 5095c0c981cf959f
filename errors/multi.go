package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If all given errors are nil, nil is returned. If only one non nil error
// is given, it is returned as it is. Otherwise a group of errors is returned.
// A group never contains another group, nested groups are flattened.
func Append(errs ...error) error {
	var all multiErr
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if u, ok := err.(unpacker); ok {
			all = append(all, u.Unpack()...)
		} else {
			all = append(all, err)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}

// multiErr is a group of errors. Error type tests (Is) succeed if any of
// the grouped errors matches. ABCI code is that of the first error.
type multiErr []error

var (
	_ unpacker = (multiErr)(nil)
	_ coder    = (multiErr)(nil)
)

func (errs multiErr) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all grouped errors.
func (errs multiErr) Unpack() []error {
	return errs
}

// ABCICode returns the code of the first grouped error.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}
