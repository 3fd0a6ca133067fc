package crypto

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/weavetest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivateKey()
	public := private.PublicKey()
	var v Ed25519Verifier

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig := private.Sign(msg)
	sig2 := private.Sign(msg2)

	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !v.VerifySignature(msg, public, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !v.VerifySignature(msg2, public, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if v.VerifySignature(msg, public, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if v.VerifySignature(msg2, public, sig) {
		t.Fatal("verified message signature of the wrong message")
	}

	if v.VerifySignature(msg, public, Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if v.VerifySignature(msg, public, nil) {
		t.Fatal("verified a nil signature of a message")
	}

	other := GenPrivateKey().PublicKey()
	if v.VerifySignature(msg, other, sig) {
		t.Fatal("verified a signature with a different key")
	}

	wrongType := PublicKey{Type: KeyTypeSECP256K1, Data: public.Data}
	if v.VerifySignature(msg, wrongType, sig) {
		t.Fatal("verified a signature with a non ed25519 key")
	}
}

func TestPrivateKeyFromSeed(t *testing.T) {
	cases := map[string]struct {
		seed     []byte
		expected []byte
	}{
		"success 1": {
			seed:     make([]byte, 32),
			expected: []byte{59, 106, 39, 188, 206, 182, 164, 45, 98, 163, 168, 208, 42, 111, 13, 115, 101, 50, 21, 119, 29, 226, 67, 166, 58, 192, 72, 161, 139, 89, 218, 41},
		},
		"success 2": {
			seed:     bytes.Repeat([]byte{31}, 32),
			expected: []byte{67, 4, 107, 254, 64, 146, 179, 233, 73, 148, 234, 218, 21, 220, 194, 13, 138, 170, 7, 182, 88, 253, 57, 84, 235, 142, 14, 251, 139, 220, 165, 222},
		},
		"failure no seed": {
			seed:     nil,
			expected: nil,
		},
		"failure wrong seed size (n<32)": {
			seed:     []byte{0},
			expected: nil,
		},
		"failure wrong seed size (n>32)": {
			seed:     make([]byte, 33),
			expected: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.expected != nil {
				pub := PrivateKeyFromSeed(tc.seed).PublicKey()
				assert.Equal(t, tc.expected, pub.Data)
			} else {
				assert.Panics(t, func() { PrivateKeyFromSeed(tc.seed) })
			}
		})
	}
}

func TestKeyTextForm(t *testing.T) {
	priv := PrivateKeyFromSeed(make([]byte, 32))
	pub := priv.PublicKey()

	s := pub.String()
	if s[:8] != "ed25519:" {
		t.Fatalf("unexpected prefix: %q", s)
	}
	parsed, err := ParsePublicKey(s)
	assert.Nil(t, err)
	if !parsed.Equals(pub) {
		t.Fatalf("want %s, got %s", pub, parsed)
	}

	// A missing prefix defaults to ed25519.
	parsed, err = ParsePublicKey(s[len("ed25519:"):])
	assert.Nil(t, err)
	if !parsed.Equals(pub) {
		t.Fatalf("want %s, got %s", pub, parsed)
	}

	privParsed, err := ParsePrivateKey(priv.String())
	assert.Nil(t, err)
	assert.Equal(t, pub, privParsed.PublicKey())

	sig := priv.Sign([]byte("x"))
	sigParsed, err := ParseSignature(sig.String())
	assert.Nil(t, err)
	assert.Equal(t, sig, sigParsed)
}

func TestParsePublicKeyErrors(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr *errors.Error
	}{
		"unknown type":    {raw: "rsa:3yZe7d", wantErr: errors.ErrInput},
		"empty":           {raw: "ed25519:", wantErr: errors.ErrEmpty},
		"invalid base58":  {raw: "ed25519:0OIl", wantErr: errors.ErrInput},
		"too short":       {raw: "ed25519:3yZe7d", wantErr: errors.ErrInput},
		"secp wrong size": {raw: "secp256k1:3yZe7d", wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := ParsePublicKey(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestPublicKeyJSON(t *testing.T) {
	pub := GenPrivateKey().PublicKey()
	raw, err := json.Marshal(pub)
	assert.Nil(t, err)
	var back PublicKey
	assert.Nil(t, json.Unmarshal(raw, &back))
	if !back.Equals(pub) {
		t.Fatalf("want %s, got %s", pub, back)
	}
}

func TestEmptyValuesJSON(t *testing.T) {
	raw, err := json.Marshal(PublicKey{})
	assert.Nil(t, err)
	assert.Equal(t, `""`, string(raw))
	back := GenPrivateKey().PublicKey()
	assert.Nil(t, json.Unmarshal(raw, &back))
	assert.Equal(t, true, back.IsEmpty())

	raw, err = json.Marshal(Signature(nil))
	assert.Nil(t, err)
	sig := Signature{1}
	assert.Nil(t, json.Unmarshal(raw, &sig))
	assert.Equal(t, 0, len(sig))
}
