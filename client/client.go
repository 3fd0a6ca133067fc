package client

import (
	"github.com/google/uuid"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/channel"
)

// Client manages the channels of a single party.
type Client struct {
	store    *Storage
	verifier crypto.Verifier
}

// New returns a client keeping its channels in given storage.
func New(store *Storage, v crypto.Verifier) *Client {
	return &Client{store: store, verifier: v}
}

// Storage returns the storage the client keeps its channels in.
func (c *Client) Storage() *Storage {
	return c.store
}

// NewChannel creates a channel funded with deposit. A fresh channel id and
// sender signing key are generated and stored. The returned message must be
// submitted with deposit attached.
func (c *Client) NewChannel(sender paychan.AccountID, receiver channel.Account, deposit paychan.Amount) (*channel.OpenChannelMsg, error) {
	if deposit.IsZero() {
		return nil, errors.Wrap(errors.ErrAmount, "deposit must not be zero")
	}
	key := crypto.GenPrivateKey()
	msg := &channel.OpenChannelMsg{
		ChannelID: uuid.New().String(),
		Receiver:  receiver,
		Sender: channel.Account{
			ID:        sender,
			PublicKey: key.PublicKey(),
		},
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	info := &ChannelInfo{
		ID:        msg.ChannelID,
		Sender:    msg.Sender,
		Receiver:  msg.Receiver,
		SenderKey: &key,
		Deposit:   deposit,
	}
	if err := c.store.Create(info); err != nil {
		return nil, err
	}
	return msg, nil
}

// Topup records additional funds added by the sender. The returned message
// must be submitted with amount attached.
func (c *Client) Topup(id string, amount paychan.Amount) (*channel.TopupMsg, error) {
	info, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	info.Deposit = info.Deposit.SaturatingAdd(amount)
	if err := c.store.update(info); err != nil {
		return nil, err
	}
	return &channel.TopupMsg{ChannelID: id}, nil
}

// CreatePayment signs a claim that pays amount on top of everything paid so
// far. The total can never exceed the deposit.
func (c *Client) CreatePayment(id string, amount paychan.Amount) (*channel.SignedClaim, error) {
	if amount.IsZero() {
		return nil, errors.Wrap(errors.ErrAmount, "payment must not be zero")
	}
	info, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if info.SenderKey == nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "not the sender of channel %q", id)
	}
	spent, err := info.Spent.Add(amount)
	if err != nil {
		return nil, err
	}
	if spent.Cmp(info.Deposit) > 0 {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "spent %s exceeds deposit %s", spent, info.Deposit)
	}
	claim, err := channel.SignClaim(*info.SenderKey, channel.Claim{
		ChannelID:    id,
		SpentBalance: spent,
	})
	if err != nil {
		return nil, err
	}
	if err := c.store.UpdateSpent(id, spent, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// Track registers, on the receiver side, a channel opened by a sender.
func (c *Client) Track(open *channel.OpenChannelMsg, deposit paychan.Amount) error {
	if err := open.Validate(); err != nil {
		return err
	}
	return c.store.Create(&ChannelInfo{
		ID:       open.ChannelID,
		Sender:   open.Sender,
		Receiver: open.Receiver,
		Deposit:  deposit,
	})
}

// AcceptPayment verifies a claim received from the sender and keeps it if
// it is better than the one held. It returns the amount the claim adds.
func (c *Client) AcceptPayment(claim *channel.SignedClaim) (paychan.Amount, error) {
	if err := claim.Validate(); err != nil {
		return paychan.Amount{}, err
	}
	info, err := c.store.Get(claim.State.ChannelID)
	if err != nil {
		return paychan.Amount{}, err
	}
	switch ok, err := claim.Verify(c.verifier, info.Sender.PublicKey); {
	case err != nil:
		return paychan.Amount{}, err
	case !ok:
		return paychan.Amount{}, errors.Wrap(errors.ErrInvalidSignature, "not signed by the sender")
	}
	spent := claim.State.SpentBalance
	if spent.Cmp(info.Spent) <= 0 {
		return paychan.Amount{}, errors.Wrapf(errors.ErrStaleClaim, "already hold a claim of %s", info.Spent)
	}
	if spent.Cmp(info.Deposit) > 0 {
		return paychan.Amount{}, errors.Wrapf(errors.ErrStaleClaim, "claim of %s exceeds deposit %s", spent, info.Deposit)
	}
	paid := spent.SaturatingSub(info.Spent)
	if err := c.store.UpdateSpent(info.ID, spent, claim); err != nil {
		return paychan.Amount{}, err
	}
	return paid, nil
}

// Withdrawal returns the message withdrawing the best claim held.
func (c *Client) Withdrawal(id string) (*channel.WithdrawMsg, error) {
	info, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if info.LastClaim == nil {
		return nil, errors.Wrapf(errors.ErrNothingToWithdraw, "no claim for channel %q", id)
	}
	return &channel.WithdrawMsg{Claim: *info.LastClaim}, nil
}

// CloseVoucher signs the zero spend claim that lets anyone close the
// channel cooperatively. It must be signed by the receiver.
func (c *Client) CloseVoucher(id string, receiverKey crypto.PrivateKey) (*channel.SignedClaim, error) {
	info, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !info.Receiver.PublicKey.Equals(receiverKey.PublicKey()) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "key does not belong to the receiver")
	}
	return channel.SignClaim(receiverKey, channel.Claim{ChannelID: id})
}
