package paychan

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/iov-one/paychan/errors"
)

// Fraction is a rational number used to express a fee rate. The zero value
// is 0/0 in memory and represents zero, the same as 0/1. It is encoded to
// JSON as 0/1.
type Fraction struct {
	_           struct{} `cbor:",toarray"`
	Numerator   Amount
	Denominator Amount
}

// NewFraction returns a fraction of n/d.
func NewFraction(n, d uint64) Fraction {
	return Fraction{Numerator: NewAmount(n), Denominator: NewAmount(d)}
}

// Percent returns p/100. It panics if p is greater than 100, as a percentage
// above hundred is a programming error.
func Percent(p uint64) Fraction {
	if p > 100 {
		panic(fmt.Sprintf("percent %d is greater than 100", p))
	}
	return NewFraction(p, 100)
}

// IsZero returns true if this fraction represents zero.
func (f Fraction) IsZero() bool {
	return f.Numerator.IsZero()
}

// IsLessThanOne returns true if this fraction value is in [0, 1).
func (f Fraction) IsLessThanOne() bool {
	return f.IsZero() || f.Numerator.Cmp(f.Denominator) < 0
}

// Apply returns floor(numerator * amount / denominator). The intermediate
// product is computed without a size limit. The remainder is dropped, which
// favors the payee over the fee collector.
// A result that exceeds the amount range is capped at the maximum amount.
func (f Fraction) Apply(a Amount) Amount {
	if f.IsZero() || a.IsZero() {
		return Amount{}
	}
	if f.Denominator.IsZero() {
		return Amount{}
	}
	res := new(big.Int).Mul(f.Numerator.Big(), a.Big())
	res.Quo(res, f.Denominator.Big())
	amount, err := AmountFromBig(res)
	if err != nil {
		return MaxAmount()
	}
	return amount
}

// Validate returns an error if this fraction represents an invalid value.
func (f Fraction) Validate() error {
	if f.Denominator.IsZero() && !f.Numerator.IsZero() {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	return nil
}

// Normalize returns a new fraction instance that has its numerator and
// denominator reduced to the smallest possible representation.
func (f Fraction) Normalize() Fraction {
	if f.IsZero() {
		return NewFraction(0, 1)
	}
	if f.Denominator.IsZero() {
		return f
	}
	n, d := f.Numerator.Big(), f.Denominator.Big()
	div := new(big.Int).GCD(nil, nil, n, d)
	n.Quo(n, div)
	d.Quo(d, div)
	// Reduced values never exceed the originals.
	num, _ := AmountFromBig(n)
	den, _ := AmountFromBig(d)
	return Fraction{Numerator: num, Denominator: den}
}

// String returns a human readable fraction representation.
func (f Fraction) String() string {
	if f.IsZero() {
		return "0"
	}
	if f.Denominator.Equals(NewAmount(1)) {
		return f.Numerator.String()
	}
	return fmt.Sprintf("%s/%s", f.Numerator, f.Denominator)
}

func (f Fraction) MarshalJSON() ([]byte, error) {
	if f.Numerator.IsZero() && f.Denominator.IsZero() {
		f = NewFraction(0, 1)
	}
	return json.Marshal(struct {
		Numerator   Amount `json:"numerator"`
		Denominator Amount `json:"denominator"`
	}{
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
	})
}

func (f *Fraction) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format.
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := ParseFractionString(human)
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = frac
		return nil
	}

	var frac struct {
		Numerator   Amount `json:"numerator"`
		Denominator Amount `json:"denominator"`
	}
	if err := json.Unmarshal(raw, &frac); err != nil {
		return errors.Wrap(errors.ErrInput, "fraction")
	}
	f.Numerator = frac.Numerator
	f.Denominator = frac.Denominator
	return nil
}

// ParseFractionString returns a fraction value that is represented by given
// string. This function fails if given string does not represent a fraction
// value.
// This fuction does not fail if representation format is correct but the value
// is invalid (i.e. value of "2/0").
func ParseFractionString(raw string) (Fraction, error) {
	chunks := strings.SplitN(raw, "/", 2)
	n, err := ParseAmount(chunks[0])
	if err != nil {
		return Fraction{}, errors.Wrap(err, "numerator")
	}
	if len(chunks) == 1 {
		return Fraction{Numerator: n, Denominator: NewAmount(1)}, nil
	}
	d, err := ParseAmount(chunks[1])
	if err != nil {
		return Fraction{}, errors.Wrap(err, "denominator")
	}
	return Fraction{Numerator: n, Denominator: d}, nil
}
