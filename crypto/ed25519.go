package crypto

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/paychan/errors"
	"golang.org/x/crypto/ed25519"
)

// SignatureSize is the length of an ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// Signature is a detached ed25519 signature. Its text form is
// "ed25519:<base58 data>".
type Signature []byte

// String returns the text form of the signature.
func (s Signature) String() string {
	return KeyTypeED25519.String() + ":" + base58.Encode(s)
}

// ParseSignature decodes the text form of a signature.
func ParseSignature(s string) (Signature, error) {
	tp, data, err := splitTyped(s)
	if err != nil {
		return nil, errors.Wrap(err, "signature")
	}
	if tp != KeyTypeED25519 {
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "%s signatures are not supported", tp)
	}
	if len(data) != SignatureSize {
		return nil, errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureSize, len(data))
	}
	return data, nil
}

func (s Signature) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(s.String())
}

func (s *Signature) UnmarshalJSON(raw []byte) error {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return errors.Wrap(errors.ErrInput, "signature must be a string")
	}
	if str == "" {
		*s = nil
		return nil
	}
	sig, err := ParseSignature(str)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// PrivateKey is an ed25519 private key. It never leaves the client.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(p.key, message)
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := p.key.Public().(ed25519.PublicKey)
	return PublicKey{Type: KeyTypeED25519, Data: []byte(pub)}
}

// String returns the text form of the key: "ed25519:<base58 of 64 bytes>".
func (p PrivateKey) String() string {
	return KeyTypeED25519.String() + ":" + base58.Encode(p.key)
}

// ParsePrivateKey decodes the text form of a private key.
func ParsePrivateKey(s string) (PrivateKey, error) {
	tp, data, err := splitTyped(s)
	if err != nil {
		return PrivateKey{}, errors.Wrap(err, "private key")
	}
	if tp != KeyTypeED25519 {
		return PrivateKey{}, errors.Wrapf(errors.ErrInput, "%s private keys are not supported", tp)
	}
	if len(data) != ed25519.PrivateKeySize {
		return PrivateKey{}, errors.Wrapf(errors.ErrInput, "private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(data))
	}
	return PrivateKey{key: data}, nil
}

func (p PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PrivateKey) UnmarshalJSON(raw []byte) error {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return errors.Wrap(errors.ErrInput, "private key must be a string")
	}
	key, err := ParsePrivateKey(str)
	if err != nil {
		return err
	}
	*p = key
	return nil
}

// GenPrivateKey returns a random new private key
func GenPrivateKey() PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return PrivateKey{key: priv}
}

// PrivateKeyFromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
// It panics if the seed is not 32 bytes long.
func PrivateKeyFromSeed(seed []byte) PrivateKey {
	return PrivateKey{key: ed25519.NewKeyFromSeed(seed)}
}

// Verifier checks a detached signature of a message against a public key.
type Verifier interface {
	VerifySignature(message []byte, key PublicKey, sig Signature) bool
}

// Ed25519Verifier verifies ed25519 signatures. Keys of any other type never
// verify.
type Ed25519Verifier struct{}

var _ Verifier = Ed25519Verifier{}

// VerifySignature verifies the signature was created with this message and
// public key.
func (Ed25519Verifier) VerifySignature(message []byte, key PublicKey, sig Signature) bool {
	if key.Type != KeyTypeED25519 || len(key.Data) != ed25519.PublicKeySize {
		return false
	}
	if len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(key.Data), message, sig)
}
