/*
Package codec implements the canonical binary encoding used for everything
that is persisted or signed.

The encoding is CBOR (RFC 8949) in its core deterministic form: map keys are
sorted, integers and lengths use the shortest form and indefinite length
items are not allowed. Domain structures are declared with the "toarray"
option so that a value is encoded as a fixed size array of its fields in
declaration order. The same value always produces the same bytes, which is
what a signature over a claim requires.
*/
package codec

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/paychan/errors"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal returns the canonical representation of given value.
func Marshal(v interface{}) ([]byte, error) {
	raw, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot encode %T: %s", v, err)
	}
	return raw, nil
}

// MustMarshal is like Marshal, but panics instead of returning an error.
// Use only for values that are known to be encodable.
func MustMarshal(v interface{}) []byte {
	raw, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// Unmarshal decodes given canonical representation into the destination,
// that must be a pointer.
func Unmarshal(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no data to decode")
	}
	if err := decMode.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode %T: %s", dest, err)
	}
	return nil
}
