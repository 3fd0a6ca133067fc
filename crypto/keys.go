package crypto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/paychan/errors"
)

// KeyType is the algorithm a key belongs to. The numeric value is the first
// byte of the binary key representation.
type KeyType uint8

const (
	KeyTypeED25519   KeyType = 0
	KeyTypeSECP256K1 KeyType = 1
)

// String returns the prefix used by the text representation of keys and
// signatures.
func (k KeyType) String() string {
	switch k {
	case KeyTypeED25519:
		return "ed25519"
	case KeyTypeSECP256K1:
		return "secp256k1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func parseKeyType(s string) (KeyType, error) {
	switch s {
	case "ed25519":
		return KeyTypeED25519, nil
	case "secp256k1":
		return KeyTypeSECP256K1, nil
	default:
		return 0, errors.Wrapf(errors.ErrInput, "unknown key type %q", s)
	}
}

// keyDataSize returns the expected size of the public key material.
func keyDataSize(k KeyType) int {
	switch k {
	case KeyTypeED25519:
		return 32
	case KeyTypeSECP256K1:
		return 64
	default:
		return 0
	}
}

// PublicKey is a typed public key. Its text form is "<type>:<base58 data>",
// for example "ed25519:DcA2MzgpJbrUATQLLceocVckhhAqrkingax4oJ9kZ847".
type PublicKey struct {
	_    struct{} `cbor:",toarray"`
	Type KeyType
	Data []byte
}

// Validate returns an error if the key material does not match the key
// type.
func (p PublicKey) Validate() error {
	size := keyDataSize(p.Type)
	if size == 0 {
		return errors.Wrapf(errors.ErrInput, "unknown key type %d", p.Type)
	}
	if len(p.Data) != size {
		return errors.Wrapf(errors.ErrInput, "%s key must be %d bytes, got %d", p.Type, size, len(p.Data))
	}
	return nil
}

// IsEmpty returns true if no key material is present.
func (p PublicKey) IsEmpty() bool {
	return len(p.Data) == 0
}

// Equals returns true if both keys are the same.
func (p PublicKey) Equals(o PublicKey) bool {
	return p.Type == o.Type && string(p.Data) == string(o.Data)
}

// String returns the text form of the key.
func (p PublicKey) String() string {
	return p.Type.String() + ":" + base58.Encode(p.Data)
}

// ParsePublicKey decodes the text form of a public key. A missing type
// prefix means an ed25519 key.
func ParsePublicKey(s string) (PublicKey, error) {
	tp, data, err := splitTyped(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "public key")
	}
	key := PublicKey{Type: tp, Data: data}
	if err := key.Validate(); err != nil {
		return PublicKey{}, err
	}
	return key, nil
}

// MarshalJSON encodes an empty key as an empty string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte(`""`), nil
	}
	return json.Marshal(p.String())
}

func (p *PublicKey) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "public key must be a string")
	}
	if s == "" {
		*p = PublicKey{}
		return nil
	}
	key, err := ParsePublicKey(s)
	if err != nil {
		return err
	}
	*p = key
	return nil
}

// splitTyped parses "<type>:<base58>" strings.
func splitTyped(s string) (KeyType, []byte, error) {
	tp := KeyTypeED25519
	encoded := s
	if chunks := strings.SplitN(s, ":", 2); len(chunks) == 2 {
		var err error
		if tp, err = parseKeyType(chunks[0]); err != nil {
			return 0, nil, err
		}
		encoded = chunks[1]
	}
	if encoded == "" {
		return 0, nil, errors.Wrap(errors.ErrEmpty, "no data")
	}
	data := base58.Decode(encoded)
	if len(data) == 0 {
		return 0, nil, errors.Wrap(errors.ErrInput, "invalid base58 data")
	}
	return tp, data, nil
}
