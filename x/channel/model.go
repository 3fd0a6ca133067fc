package channel

import (
	"time"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/orm"
)

// HardCloseTimeout is the time that must pass between the start of a force
// close and its finish.
const HardCloseTimeout = 7 * 24 * time.Hour

// MaxChannelIDLen is the maximum length of a channel id.
const MaxChannelIDLen = 256

// Account binds an account to the key it signs claims with.
type Account struct {
	_         struct{}          `cbor:",toarray"`
	ID        paychan.AccountID `json:"account_id"`
	PublicKey crypto.PublicKey  `json:"public_key"`
}

// Validate ensures the account is valid.
func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "ID", a.ID.Validate())
	errs = errors.AppendField(errs, "PublicKey", a.PublicKey.Validate())
	return errs
}

func (a *Account) isZero() bool {
	return a.ID == "" && a.PublicKey.IsEmpty()
}

// Channel is the state of a payment channel.
type Channel struct {
	_                 struct{}           `cbor:",toarray"`
	Receiver          Account            `json:"receiver"`
	Sender            Account            `json:"sender"`
	AddedBalance      paychan.Amount     `json:"added_balance"`
	WithdrawnBalance  paychan.Amount     `json:"withdrawn_balance"`
	ForceCloseStarted *paychan.Timestamp `json:"force_close_started,omitempty"`
}

var _ orm.Model = (*Channel)(nil)

// Validate ensures the channel is valid. A settled channel is always valid.
func (c *Channel) Validate() error {
	if c.IsSettled() {
		return nil
	}
	var errs error
	errs = errors.AppendField(errs, "Receiver", c.Receiver.Validate())
	errs = errors.AppendField(errs, "Sender", c.Sender.Validate())
	return errs
}

// IsSettled returns true if the channel was closed. A closed channel is the
// zero record kept in its place.
func (c *Channel) IsSettled() bool {
	return c.Receiver.isZero() &&
		c.Sender.isZero() &&
		c.AddedBalance.IsZero() &&
		c.WithdrawnBalance.IsZero() &&
		c.ForceCloseStarted == nil
}

// IsClosing returns true if a force close was started.
func (c *Channel) IsClosing() bool {
	return c.ForceCloseStarted != nil
}

// Remaining returns the funds that were not withdrawn yet.
func (c *Channel) Remaining() paychan.Amount {
	return c.AddedBalance.SaturatingSub(c.WithdrawnBalance)
}

// Claim is the cumulative amount a sender allows the receiver to withdraw
// from the channel.
type Claim struct {
	_            struct{}       `cbor:",toarray"`
	ChannelID    string         `json:"channel_id"`
	SpentBalance paychan.Amount `json:"spent_balance"`
}

// Validate ensures the claim is valid.
func (c *Claim) Validate() error {
	return errors.AppendField(nil, "ChannelID", validateChannelID(c.ChannelID))
}

// SignedClaim is a claim together with a detached signature of its
// canonical encoding.
type SignedClaim struct {
	_         struct{}         `cbor:",toarray"`
	State     Claim            `json:"state"`
	Signature crypto.Signature `json:"signature"`
}

// Validate ensures the signed claim is well formed. It does not verify the
// signature.
func (s *SignedClaim) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "State", s.State.Validate())
	if len(s.Signature) != crypto.SignatureSize {
		errs = errors.Append(errs,
			errors.Field("Signature", errors.ErrInput, "signature must be %d bytes", crypto.SignatureSize))
	}
	return errs
}

// Verify returns true if the claim was signed with the private key of
// given public key. Only ed25519 keys are supported, any other key type is
// an error.
func (s *SignedClaim) Verify(v crypto.Verifier, key crypto.PublicKey) (bool, error) {
	if key.Type != crypto.KeyTypeED25519 {
		return false, errors.Wrapf(errors.ErrInvalidSignature, "unsupported key type %s", key.Type)
	}
	raw, err := codec.Marshal(&s.State)
	if err != nil {
		return false, errors.Wrap(err, "serialize claim")
	}
	return v.VerifySignature(raw, key, s.Signature), nil
}

// SignClaim returns the claim signed with given key.
func SignClaim(key crypto.PrivateKey, state Claim) (*SignedClaim, error) {
	raw, err := codec.Marshal(&state)
	if err != nil {
		return nil, errors.Wrap(err, "serialize claim")
	}
	return &SignedClaim{
		State:     state,
		Signature: key.Sign(raw),
	}, nil
}

func validateChannelID(id string) error {
	switch n := len(id); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "channel id")
	case n > MaxChannelIDLen:
		return errors.Wrapf(errors.ErrInput, "channel id longer than %d", MaxChannelIDLen)
	}
	return nil
}
