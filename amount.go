package paychan

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/paychan/errors"
	"lukechampine.com/uint128"
)

// AmountSize is the length of the canonical binary representation of an
// Amount: 16 bytes, little endian.
const AmountSize = 16

// Amount is an unsigned 128 bit quantity of the native token, expressed in
// its smallest unit. The zero value is a zero amount.
type Amount struct {
	u uint128.Uint128
}

// NewAmount returns an amount of given value.
func NewAmount(v uint64) Amount {
	return Amount{u: uint128.From64(v)}
}

// MaxAmount returns the biggest representable amount.
func MaxAmount() Amount {
	return Amount{u: uint128.Max}
}

// AmountFromBig converts given integer. It fails if the value is negative or
// does not fit in 128 bits.
func AmountFromBig(i *big.Int) (Amount, error) {
	if i.Sign() < 0 {
		return Amount{}, errors.Wrap(errors.ErrAmount, "negative value")
	}
	if i.BitLen() > 128 {
		return Amount{}, errors.Wrap(errors.ErrOverflow, "value exceeds 128 bits")
	}
	return Amount{u: uint128.FromBig(i)}, nil
}

// ParseAmount returns an amount represented by given decimal string.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, errors.Wrap(errors.ErrEmpty, "amount")
	}
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
	}
	return AmountFromBig(i)
}

// IsZero returns true if this amount represents nothing.
func (a Amount) IsZero() bool {
	return a.u.IsZero()
}

// Cmp returns -1, 0 or 1 if this amount is respectively less than, equal to
// or greater than the other one.
func (a Amount) Cmp(b Amount) int {
	return a.u.Cmp(b.u)
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(b Amount) bool {
	return a.u.Equals(b.u)
}

// SaturatingAdd returns a+b, or the maximal amount if the result does not fit.
func (a Amount) SaturatingAdd(b Amount) Amount {
	sum := a.u.AddWrap(b.u)
	if sum.Cmp(a.u) < 0 {
		return MaxAmount()
	}
	return Amount{u: sum}
}

// SaturatingSub returns a-b, or zero if b is greater than a.
func (a Amount) SaturatingSub(b Amount) Amount {
	if a.u.Cmp(b.u) <= 0 {
		return Amount{}
	}
	return Amount{u: a.u.Sub(b.u)}
}

// Add returns a+b. It fails instead of wrapping around on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a.u.AddWrap(b.u)
	if sum.Cmp(a.u) < 0 {
		return Amount{}, errors.Wrap(errors.ErrOverflow, "amount")
	}
	return Amount{u: sum}, nil
}

// Sub returns a-b. It fails if b is greater than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.u.Cmp(b.u) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s is less than %s", a, b)
	}
	return Amount{u: a.u.Sub(b.u)}, nil
}

// Big returns this amount as a big integer.
func (a Amount) Big() *big.Int {
	return a.u.Big()
}

// Bytes returns the canonical 16 byte little endian representation.
func (a Amount) Bytes() []byte {
	b := make([]byte, AmountSize)
	a.u.PutBytes(b)
	return b
}

// AmountFromBytes decodes the canonical representation as produced by Bytes.
func AmountFromBytes(b []byte) (Amount, error) {
	if len(b) != AmountSize {
		return Amount{}, errors.Wrapf(errors.ErrInput, "amount must be %d bytes, got %d", AmountSize, len(b))
	}
	return Amount{u: uint128.FromBytes(b)}, nil
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.u.String()
}

// MarshalJSON serializes the amount as a decimal string. 128 bit values
// cannot be represented as a JSON number without losing precision.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "amount must be a string or a number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalCBOR encodes the amount as a 16 byte string so that the encoding
// does not depend on the magnitude of the value.
func (a Amount) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(a.Bytes())
}

// UnmarshalCBOR decodes the representation produced by MarshalCBOR.
func (a *Amount) UnmarshalCBOR(raw []byte) error {
	var b []byte
	if err := cbor.Unmarshal(raw, &b); err != nil {
		return errors.Wrap(errors.ErrInput, "amount: "+err.Error())
	}
	v, err := AmountFromBytes(b)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
