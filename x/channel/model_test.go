package channel

import (
	"testing"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/store"
	"github.com/iov-one/paychan/weavetest"
	"github.com/iov-one/paychan/weavetest/assert"
)

func TestSignedClaimVerify(t *testing.T) {
	key := weavetest.NewKey()
	other := weavetest.NewKey()
	state := Claim{ChannelID: "chan-1", SpentBalance: paychan.NewAmount(40)}

	signed, err := SignClaim(key, state)
	assert.Nil(t, err)
	assert.Nil(t, signed.Validate())

	var v crypto.Ed25519Verifier
	ok, err := signed.Verify(v, key.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	ok, err = signed.Verify(v, other.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	// the signature covers the whole state
	tampered := *signed
	tampered.State.SpentBalance = paychan.NewAmount(41)
	ok, err = tampered.Verify(v, key.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	tampered = *signed
	tampered.State.ChannelID = "chan-2"
	ok, err = tampered.Verify(v, key.PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	// only ed25519 keys are accepted
	secp := crypto.PublicKey{Type: crypto.KeyTypeSECP256K1, Data: make([]byte, 64)}
	_, err = signed.Verify(v, secp)
	assert.IsErr(t, errors.ErrInvalidSignature, err)
}

func TestSignedClaimVerifyDelegates(t *testing.T) {
	signed, err := SignClaim(weavetest.NewKey(), Claim{ChannelID: "x", SpentBalance: paychan.NewAmount(1)})
	assert.Nil(t, err)

	v := &weavetest.Verifier{Valid: true}
	ok, err := signed.Verify(v, weavetest.NewKey().PublicKey())
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	ok, _ = signed.Verify(v, weavetest.NewKey().PublicKey())
	assert.Equal(t, true, ok)
	assert.Equal(t, 2, v.CallCount())
}

func TestClaimEncodingIsStable(t *testing.T) {
	state := Claim{ChannelID: "abc", SpentBalance: paychan.NewAmount(1)}
	a, err := codec.Marshal(&state)
	assert.Nil(t, err)
	b, err := codec.Marshal(&Claim{ChannelID: "abc", SpentBalance: paychan.NewAmount(1)})
	assert.Nil(t, err)
	assert.Equal(t, a, b)

	// array of two: the id string and the 16 byte amount
	assert.Equal(t, byte(0x82), a[0])
	assert.Equal(t, byte(0x63), a[1])
	assert.Equal(t, "abc", string(a[2:5]))
	assert.Equal(t, 1+1+3+1+paychan.AmountSize, len(a))
}

func TestSignedClaimValidate(t *testing.T) {
	cases := map[string]struct {
		claim     SignedClaim
		wantField string
		wantErr   *errors.Error
	}{
		"missing channel id": {
			claim:     SignedClaim{Signature: make(crypto.Signature, crypto.SignatureSize)},
			wantField: "State",
			wantErr:   errors.ErrEmpty,
		},
		"short signature": {
			claim:     SignedClaim{State: Claim{ChannelID: "a"}, Signature: make(crypto.Signature, 10)},
			wantField: "Signature",
			wantErr:   errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.claim.Validate()
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestChannelIsSettled(t *testing.T) {
	var ch Channel
	assert.Equal(t, true, ch.IsSettled())
	assert.Nil(t, ch.Validate())

	ts := paychan.Timestamp(1)
	for name, c := range map[string]Channel{
		"added":   {AddedBalance: paychan.NewAmount(1)},
		"closing": {ForceCloseStarted: &ts},
		"sender":  {Sender: Account{ID: "alice.near"}},
	} {
		if c.IsSettled() {
			t.Errorf("%s: must not be settled", name)
		}
	}

	ch = Channel{Sender: Account{ID: "alice.near"}}
	assert.FieldError(t, ch.Validate(), "Receiver", errors.ErrEmpty)
}

func TestBucket(t *testing.T) {
	db := store.MemStore()
	b := NewBucket()
	key := weavetest.NewKey()
	ch := &Channel{
		Receiver:     Account{ID: "bob.near", PublicKey: key.PublicKey()},
		Sender:       Account{ID: "alice.near", PublicKey: key.PublicKey()},
		AddedBalance: paychan.NewAmount(10),
	}

	ok, err := b.Exists(db, "c1")
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	_, err = b.Get(db, "c1")
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.IsErr(t, errors.ErrNotFound, b.Save(db, "c1", ch))
	assert.IsErr(t, errors.ErrNotFound, b.Reset(db, "c1"))

	assert.Nil(t, b.InsertNew(db, "c1", ch))
	assert.IsErr(t, errors.ErrDuplicate, b.InsertNew(db, "c1", ch))

	got, err := b.Get(db, "c1")
	assert.Nil(t, err)
	assert.Equal(t, ch, got)

	got.WithdrawnBalance = paychan.NewAmount(3)
	assert.Nil(t, b.Save(db, "c1", got))
	got, err = b.Get(db, "c1")
	assert.Nil(t, err)
	assert.Equal(t, paychan.NewAmount(3), got.WithdrawnBalance)

	assert.Nil(t, b.Reset(db, "c1"))
	ok, err = b.Exists(db, "c1")
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
	got, err = b.Get(db, "c1")
	assert.Nil(t, err)
	assert.Equal(t, true, got.IsSettled())
	assert.IsErr(t, errors.ErrDuplicate, b.InsertNew(db, "c1", ch))

	assert.Nil(t, b.InsertNew(db, "c0", ch))
	var ids []string
	err = b.Iterate(db, func(id string, ch *Channel) error {
		ids = append(ids, id)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"c0", "c1"}, ids)
}
