package weavetest

import (
	"github.com/iov-one/paychan/crypto"
)

// NewKey returns a fresh ed25519 private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivateKey()
}

// Verifier is a crypto.Verifier mock that accepts or rejects every
// signature. It counts how many times it was called.
type Verifier struct {
	Valid bool
	calls int
}

var _ crypto.Verifier = (*Verifier)(nil)

func (v *Verifier) VerifySignature(msg []byte, key crypto.PublicKey, sig crypto.Signature) bool {
	v.calls++
	return v.Valid
}

// CallCount returns the number of verifications done.
func (v *Verifier) CallCount() int {
	return v.calls
}
