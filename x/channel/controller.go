package channel

import (
	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x"
)

// FeeCollector takes a fee from every withdrawn amount.
type FeeCollector interface {
	// CollectFee returns what is left of the amount after the fee was
	// taken.
	CollectFee(db paychan.KVStore, amount paychan.Amount) (paychan.Amount, error)
}

// Controller implements the channel state machine. Payouts are not
// executed, they are returned as effects. An operation that fails may leave
// partial writes in the given store, so callers run it in a cache wrap and
// discard it on error, as the host does for every message.
type Controller struct {
	bucket   *Bucket
	auth     x.Authenticator
	verifier crypto.Verifier
	fees     FeeCollector
	transfer paychan.Transferer
}

// NewController returns a controller using given collaborators.
func NewController(
	authn x.Authenticator,
	v crypto.Verifier,
	fees FeeCollector,
	t paychan.Transferer,
) *Controller {
	return &Controller{
		bucket:   NewBucket(),
		auth:     authn,
		verifier: v,
		fees:     fees,
		transfer: t,
	}
}

// OpenChannel creates a new channel funded with given deposit.
func (c *Controller) OpenChannel(ctx paychan.Context, db paychan.KVStore, id string, receiver, sender Account, deposit paychan.Amount) error {
	ch := Channel{
		Receiver:     receiver,
		Sender:       sender,
		AddedBalance: deposit,
	}
	if err := c.bucket.InsertNew(db, id, &ch); err != nil {
		return err
	}
	paychan.GetLogger(ctx).Debug("channel opened", "id", id, "deposit", deposit)
	return nil
}

// Topup adds funds to an open channel.
func (c *Controller) Topup(ctx paychan.Context, db paychan.KVStore, id string, amount paychan.Amount) error {
	ch, err := c.active(db, id)
	if err != nil {
		return err
	}
	if ch.IsClosing() {
		return errors.Wrapf(errors.ErrAlreadyClosing, "channel %q", id)
	}
	ch.AddedBalance = ch.AddedBalance.SaturatingAdd(amount)
	return c.bucket.Save(db, id, ch)
}

// Withdraw releases to the receiver the difference between the claimed
// and the already withdrawn balance, minus the fee. The claim must be signed
// by the sender.
func (c *Controller) Withdraw(ctx paychan.Context, db paychan.KVStore, claim *SignedClaim) ([]paychan.Effect, error) {
	id := claim.State.ChannelID
	ch, err := c.active(db, id)
	if err != nil {
		return nil, err
	}
	if err := c.verify(claim, ch.Sender, "sender"); err != nil {
		return nil, err
	}

	spent := claim.State.SpentBalance
	if spent.Cmp(ch.WithdrawnBalance) <= 0 {
		return nil, errors.Wrapf(errors.ErrStaleClaim, "claim of %s, already withdrawn %s", spent, ch.WithdrawnBalance)
	}
	if spent.Cmp(ch.AddedBalance) > 0 {
		return nil, errors.Wrapf(errors.ErrStaleClaim, "claim of %s exceeds the channel balance %s", spent, ch.AddedBalance)
	}

	delta := spent.SaturatingSub(ch.WithdrawnBalance)
	ch.WithdrawnBalance = spent
	if err := c.bucket.Save(db, id, ch); err != nil {
		return nil, err
	}
	net, err := c.fees.CollectFee(db, delta)
	if err != nil {
		return nil, errors.Wrap(err, "collect fee")
	}
	return []paychan.Effect{c.transfer.Transfer(ch.Receiver.ID, net)}, nil
}

// Close settles the channel and returns the remaining funds to the
// sender. The claim must be signed by the receiver and spend nothing. Anyone
// holding such a claim can close the channel.
func (c *Controller) Close(ctx paychan.Context, db paychan.KVStore, claim *SignedClaim) ([]paychan.Effect, error) {
	id := claim.State.ChannelID
	ch, err := c.active(db, id)
	if err != nil {
		return nil, err
	}
	if err := c.verify(claim, ch.Receiver, "receiver"); err != nil {
		return nil, err
	}
	if !claim.State.SpentBalance.IsZero() {
		return nil, errors.Wrap(errors.ErrStaleClaim, "close claim must not spend")
	}
	return c.settle(ctx, db, id, ch)
}

// WithdrawAndClose withdraws and then closes, in a single operation. The
// close is evaluated against the state left by the withdraw. Effects of
// both steps are returned in order.
func (c *Controller) WithdrawAndClose(ctx paychan.Context, db paychan.KVStore, withdraw, closing *SignedClaim) ([]paychan.Effect, error) {
	effects, err := c.Withdraw(ctx, db, withdraw)
	if err != nil {
		return nil, errors.Wrap(err, "withdraw")
	}
	closed, err := c.Close(ctx, db, closing)
	if err != nil {
		return nil, errors.Wrap(err, "close")
	}
	return append(effects, closed...), nil
}

// ForceCloseStart starts the unilateral close of the channel. Only the
// sender can call it.
func (c *Controller) ForceCloseStart(ctx paychan.Context, db paychan.KVStore, id string) error {
	ch, err := c.active(db, id)
	if err != nil {
		return err
	}
	if ch.IsClosing() {
		return errors.Wrapf(errors.ErrAlreadyClosing, "channel %q", id)
	}
	if !c.auth.HasAccount(ctx, ch.Sender.ID) {
		return errors.Wrap(errors.ErrUnauthorized, "only the sender can force close")
	}
	now, err := blockTime(ctx)
	if err != nil {
		return err
	}
	ch.ForceCloseStarted = &now
	return c.bucket.Save(db, id, ch)
}

// ForceCloseFinish settles a channel once HardCloseTimeout passed since the
// force close was started. The remaining funds go to the sender.
func (c *Controller) ForceCloseFinish(ctx paychan.Context, db paychan.KVStore, id string) ([]paychan.Effect, error) {
	ch, err := c.active(db, id)
	if err != nil {
		return nil, err
	}
	if !ch.IsClosing() {
		return nil, errors.Wrapf(errors.ErrNotClosing, "channel %q", id)
	}
	now, err := blockTime(ctx)
	if err != nil {
		return nil, err
	}
	if elapsed := now.Since(*ch.ForceCloseStarted); elapsed < HardCloseTimeout {
		return nil, errors.Wrapf(errors.ErrTimeoutNotElapsed, "%s left", HardCloseTimeout-elapsed)
	}
	return c.settle(ctx, db, id, ch)
}

// Channel returns the channel with given id, or nil if there is none.
func (c *Controller) Channel(db paychan.ReadOnlyKVStore, id string) (*Channel, error) {
	ch, err := c.bucket.Get(db, id)
	if errors.ErrNotFound.Is(err) {
		return nil, nil
	}
	return ch, err
}

// active returns the channel unless it does not exist or is settled.
func (c *Controller) active(db paychan.ReadOnlyKVStore, id string) (*Channel, error) {
	ch, err := c.bucket.Get(db, id)
	if err != nil {
		return nil, err
	}
	if ch.IsSettled() {
		return nil, errors.Wrapf(errors.ErrNotFound, "channel %q is settled", id)
	}
	return ch, nil
}

func (c *Controller) verify(claim *SignedClaim, signer Account, role string) error {
	ok, err := claim.Verify(c.verifier, signer.PublicKey)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrInvalidSignature, "not signed by the %s", role)
	}
	return nil
}

func (c *Controller) settle(ctx paychan.Context, db paychan.KVStore, id string, ch *Channel) ([]paychan.Effect, error) {
	remaining := ch.Remaining()
	if err := c.bucket.Reset(db, id); err != nil {
		return nil, err
	}
	paychan.GetLogger(ctx).Debug("channel settled", "id", id, "refund", remaining)
	return []paychan.Effect{c.transfer.Transfer(ch.Sender.ID, remaining)}, nil
}

func blockTime(ctx paychan.Context) (paychan.Timestamp, error) {
	now, ok := paychan.Now(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block time not set")
	}
	return now, nil
}
