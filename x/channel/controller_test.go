package channel

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/store"
	"github.com/iov-one/paychan/weavetest"
	"github.com/iov-one/paychan/weavetest/assert"
	"github.com/iov-one/paychan/x/auth"
	"github.com/iov-one/paychan/x/ownership"
)

var genesisTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db          paychan.CacheableKVStore
	ctrl        *Controller
	fees        *ownership.Controller
	sender      Account
	senderKey   crypto.PrivateKey
	receiver    Account
	receiverKey crypto.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	senderKey := weavetest.NewKey()
	receiverKey := weavetest.NewKey()
	fees := ownership.NewController(weavetest.Transferer{})
	return &fixture{
		db:          store.MemStore(),
		ctrl:        NewController(auth.CallerAuth{}, crypto.Ed25519Verifier{}, fees, weavetest.Transferer{}),
		fees:        fees,
		sender:      Account{ID: "alice.near", PublicKey: senderKey.PublicKey()},
		senderKey:   senderKey,
		receiver:    Account{ID: "bob.near", PublicKey: receiverKey.PublicKey()},
		receiverKey: receiverKey,
	}
}

// ctx returns a context of an operation called by given account at given
// offset from the genesis time.
func (f *fixture) ctx(caller paychan.AccountID, after time.Duration) paychan.Context {
	ctx := paychan.WithBlockTime(context.Background(), genesisTime.Add(after))
	return paychan.WithCaller(ctx, caller)
}

func (f *fixture) open(t *testing.T, id string, deposit uint64) {
	t.Helper()
	err := f.ctrl.OpenChannel(f.ctx("alice.near", 0), f.db, id, f.receiver, f.sender, paychan.NewAmount(deposit))
	assert.Nil(t, err)
}

func (f *fixture) claim(t *testing.T, key crypto.PrivateKey, id string, spent uint64) *SignedClaim {
	t.Helper()
	c, err := SignClaim(key, Claim{ChannelID: id, SpentBalance: paychan.NewAmount(spent)})
	assert.Nil(t, err)
	return c
}

func (f *fixture) channel(t *testing.T, id string) *Channel {
	t.Helper()
	ch, err := f.ctrl.Channel(f.db, id)
	assert.Nil(t, err)
	return ch
}

func transfer(to paychan.AccountID, amount uint64) weavetest.Transfer {
	return weavetest.Transfer{To: to, Amount: paychan.NewAmount(amount)}
}

func TestCooperativeLifecycleWithFee(t *testing.T) {
	f := newFixture(t)
	fees := paychan.Percent(10)
	owner := paychan.AccountID("fees.near")
	assert.Nil(t, f.fees.Update(f.db, &owner, fees))

	f.open(t, "chan-1", 100)
	ctx := f.ctx("bob.near", time.Hour)

	effects, err := f.ctrl.Withdraw(ctx, f.db, f.claim(t, f.senderKey, "chan-1", 40))
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{transfer("bob.near", 36)}, weavetest.Transfers(effects))
	assert.Equal(t, paychan.NewAmount(40), f.channel(t, "chan-1").WithdrawnBalance)

	// the same claim cannot be used twice
	_, err = f.ctrl.Withdraw(ctx, f.db, f.claim(t, f.senderKey, "chan-1", 40))
	assert.IsErr(t, errors.ErrStaleClaim, err)

	effects, err = f.ctrl.Withdraw(ctx, f.db, f.claim(t, f.senderKey, "chan-1", 90))
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{transfer("bob.near", 45)}, weavetest.Transfers(effects))
	assert.Equal(t, paychan.NewAmount(90), f.channel(t, "chan-1").WithdrawnBalance)

	o, err := f.fees.Owner(f.db)
	assert.Nil(t, err)
	assert.Equal(t, paychan.NewAmount(9), o.Balance)

	// anyone can close with the receiver voucher
	effects, err = f.ctrl.Close(f.ctx("carol.near", time.Hour), f.db, f.claim(t, f.receiverKey, "chan-1", 0))
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{transfer("alice.near", 10)}, weavetest.Transfers(effects))
	assert.Equal(t, true, f.channel(t, "chan-1").IsSettled())

	// replay protection
	err = f.ctrl.OpenChannel(f.ctx("alice.near", 0), f.db, "chan-1", f.receiver, f.sender, paychan.NewAmount(1))
	assert.IsErr(t, errors.ErrDuplicate, err)
	_, err = f.ctrl.Withdraw(ctx, f.db, f.claim(t, f.senderKey, "chan-1", 95))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.ctrl.Close(ctx, f.db, f.claim(t, f.receiverKey, "chan-1", 0))
	assert.IsErr(t, errors.ErrNotFound, err)
	err = f.ctrl.Topup(ctx, f.db, "chan-1", paychan.NewAmount(5))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestWithdraw(t *testing.T) {
	cases := map[string]struct {
		spent   uint64
		signer  func(f *fixture) crypto.PrivateKey
		id      string
		wantErr *errors.Error
		want    []weavetest.Transfer
	}{
		"sender signed": {
			spent:  30,
			signer: func(f *fixture) crypto.PrivateKey { return f.senderKey },
			id:     "chan-1",
			want:   []weavetest.Transfer{transfer("bob.near", 30)},
		},
		"whole deposit": {
			spent:  100,
			signer: func(f *fixture) crypto.PrivateKey { return f.senderKey },
			id:     "chan-1",
			want:   []weavetest.Transfer{transfer("bob.near", 100)},
		},
		"receiver signed": {
			spent:   30,
			signer:  func(f *fixture) crypto.PrivateKey { return f.receiverKey },
			id:      "chan-1",
			wantErr: errors.ErrInvalidSignature,
		},
		"unknown channel": {
			spent:   30,
			signer:  func(f *fixture) crypto.PrivateKey { return f.senderKey },
			id:      "chan-2",
			wantErr: errors.ErrNotFound,
		},
		"zero spend": {
			spent:   0,
			signer:  func(f *fixture) crypto.PrivateKey { return f.senderKey },
			id:      "chan-1",
			wantErr: errors.ErrStaleClaim,
		},
		"above the deposit": {
			spent:   101,
			signer:  func(f *fixture) crypto.PrivateKey { return f.senderKey },
			id:      "chan-1",
			wantErr: errors.ErrStaleClaim,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.open(t, "chan-1", 100)

			effects, err := f.ctrl.Withdraw(f.ctx("bob.near", 0), f.db, f.claim(t, tc.signer(f), tc.id, tc.spent))
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				assert.Equal(t, true, f.channel(t, "chan-1").WithdrawnBalance.IsZero())
				return
			}
			assert.Equal(t, tc.want, weavetest.Transfers(effects))
			assert.Equal(t, paychan.NewAmount(tc.spent), f.channel(t, "chan-1").WithdrawnBalance)
		})
	}
}

func TestWithdrawIsMonotonic(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 1000)
	ctx := f.ctx("bob.near", 0)

	var withdrawn uint64
	for _, spent := range []uint64{5, 3, 5, 70, 71, 69, 500, 1000, 1000} {
		effects, err := f.ctrl.Withdraw(ctx, f.db, f.claim(t, f.senderKey, "chan-1", spent))
		if spent <= withdrawn {
			assert.IsErr(t, errors.ErrStaleClaim, err)
		} else {
			assert.Nil(t, err)
			assert.Equal(t, []weavetest.Transfer{transfer("bob.near", spent-withdrawn)}, weavetest.Transfers(effects))
			withdrawn = spent
		}
		assert.Equal(t, paychan.NewAmount(withdrawn), f.channel(t, "chan-1").WithdrawnBalance)
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 100)
	ctx := f.ctx("alice.near", 0)

	// a sender signed voucher does not close
	_, err := f.ctrl.Close(ctx, f.db, f.claim(t, f.senderKey, "chan-1", 0))
	assert.IsErr(t, errors.ErrInvalidSignature, err)

	// a voucher must not spend
	_, err = f.ctrl.Close(ctx, f.db, f.claim(t, f.receiverKey, "chan-1", 1))
	assert.IsErr(t, errors.ErrStaleClaim, err)
	assert.Equal(t, false, f.channel(t, "chan-1").IsSettled())

	// a closing channel can still be closed cooperatively
	assert.Nil(t, f.ctrl.ForceCloseStart(ctx, f.db, "chan-1"))
	effects, err := f.ctrl.Close(ctx, f.db, f.claim(t, f.receiverKey, "chan-1", 0))
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{transfer("alice.near", 100)}, weavetest.Transfers(effects))
}

func TestWithdrawAndClose(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 100)
	ctx := f.ctx("bob.near", 0)

	effects, err := f.ctrl.WithdrawAndClose(ctx, f.db,
		f.claim(t, f.senderKey, "chan-1", 60),
		f.claim(t, f.receiverKey, "chan-1", 0))
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{
		transfer("bob.near", 60),
		transfer("alice.near", 40),
	}, weavetest.Transfers(effects))
	assert.Equal(t, true, f.channel(t, "chan-1").IsSettled())

	f.open(t, "chan-2", 100)
	cache := f.db.CacheWrap()
	_, err = f.ctrl.WithdrawAndClose(ctx, cache,
		f.claim(t, f.senderKey, "chan-2", 60),
		f.claim(t, f.senderKey, "chan-2", 0))
	assert.IsErr(t, errors.ErrInvalidSignature, err)
	cache.Discard()
	assert.Equal(t, true, f.channel(t, "chan-2").WithdrawnBalance.IsZero())
}

func TestTopup(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 100)
	ctx := f.ctx("alice.near", 0)

	assert.Nil(t, f.ctrl.Topup(ctx, f.db, "chan-1", paychan.NewAmount(50)))
	assert.Equal(t, paychan.NewAmount(150), f.channel(t, "chan-1").AddedBalance)

	// saturates instead of overflowing
	assert.Nil(t, f.ctrl.Topup(ctx, f.db, "chan-1", paychan.MaxAmount()))
	assert.Equal(t, paychan.MaxAmount(), f.channel(t, "chan-1").AddedBalance)

	assert.IsErr(t, errors.ErrNotFound, f.ctrl.Topup(ctx, f.db, "chan-2", paychan.NewAmount(1)))

	assert.Nil(t, f.ctrl.ForceCloseStart(ctx, f.db, "chan-1"))
	assert.IsErr(t, errors.ErrAlreadyClosing, f.ctrl.Topup(ctx, f.db, "chan-1", paychan.NewAmount(1)))
}

func TestForceClose(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 100)

	err := f.ctrl.ForceCloseStart(f.ctx("bob.near", 0), f.db, "chan-1")
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = f.ctrl.ForceCloseFinish(f.ctx("alice.near", 0), f.db, "chan-1")
	assert.IsErr(t, errors.ErrNotClosing, err)

	assert.Nil(t, f.ctrl.ForceCloseStart(f.ctx("alice.near", time.Hour), f.db, "chan-1"))
	started := f.channel(t, "chan-1").ForceCloseStarted
	assert.NotNil(t, started)
	assert.Equal(t, paychan.AsTimestamp(genesisTime.Add(time.Hour)), *started)

	err = f.ctrl.ForceCloseStart(f.ctx("alice.near", 2*time.Hour), f.db, "chan-1")
	assert.IsErr(t, errors.ErrAlreadyClosing, err)

	_, err = f.ctrl.ForceCloseFinish(f.ctx("alice.near", time.Hour+HardCloseTimeout-time.Nanosecond), f.db, "chan-1")
	assert.IsErr(t, errors.ErrTimeoutNotElapsed, err)

	// anyone can finish once the timeout passed
	effects, err := f.ctrl.ForceCloseFinish(f.ctx("carol.near", time.Hour+HardCloseTimeout), f.db, "chan-1")
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{transfer("alice.near", 100)}, weavetest.Transfers(effects))
	assert.Equal(t, true, f.channel(t, "chan-1").IsSettled())

	_, err = f.ctrl.ForceCloseFinish(f.ctx("alice.near", 2*HardCloseTimeout), f.db, "chan-1")
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestForceCloseAfterWithdraw(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 100)

	assert.Nil(t, f.ctrl.ForceCloseStart(f.ctx("alice.near", 0), f.db, "chan-1"))

	// the receiver can still withdraw while the channel is closing
	_, err := f.ctrl.Withdraw(f.ctx("bob.near", time.Hour), f.db, f.claim(t, f.senderKey, "chan-1", 75))
	assert.Nil(t, err)

	effects, err := f.ctrl.ForceCloseFinish(f.ctx("alice.near", HardCloseTimeout), f.db, "chan-1")
	assert.Nil(t, err)
	assert.Equal(t, []weavetest.Transfer{transfer("alice.near", 25)}, weavetest.Transfers(effects))
}

func TestForceCloseRequiresBlockTime(t *testing.T) {
	f := newFixture(t)
	f.open(t, "chan-1", 100)
	ctx := paychan.WithCaller(context.Background(), "alice.near")
	assert.IsErr(t, errors.ErrState, f.ctrl.ForceCloseStart(ctx, f.db, "chan-1"))
}

func TestChannelQueryOfUnknown(t *testing.T) {
	f := newFixture(t)
	ch, err := f.ctrl.Channel(f.db, "nope")
	assert.Nil(t, err)
	assert.Nil(t, ch)
}
