package app

import (
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/app"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/migration"
	"github.com/iov-one/paychan/weavetest/assert"
	"github.com/iov-one/paychan/x/bank"
	"github.com/iov-one/paychan/x/channel"
	"github.com/iov-one/paychan/x/ownership"
)

const (
	contract = paychan.AccountID("paychan.near")
	owner    = paychan.AccountID("fees.near")
	alice    = paychan.AccountID("alice.near")
	bob      = paychan.AccountID("bob.near")
)

var genesisTime = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

type testChain struct {
	t     *testing.T
	app   *app.Application
	clock *clock.TestClock

	aliceKey crypto.PrivateKey
	bobKey   crypto.PrivateKey
}

func newTestChain(t *testing.T) *testChain {
	t.Helper()
	clk := clock.NewTestClock(genesisTime)
	kv, err := CommitKVStore("")
	assert.Nil(t, err)
	a, err := Application(kv, clk, log.NewNopLogger())
	assert.Nil(t, err)

	gen, err := GenInitOptions(GenesisParams{
		ChainID:  "paychan-test",
		Contract: contract,
		Owner:    owner,
		Fee:      paychan.Percent(10),
		Accounts: []bank.GenesisAccount{
			{Account: alice, Balance: paychan.NewAmount(1000)},
		},
	})
	assert.Nil(t, err)
	assert.Nil(t, a.InitChain(gen))

	return &testChain{
		t:        t,
		app:      a,
		clock:    clk,
		aliceKey: crypto.GenPrivateKey(),
		bobKey:   crypto.GenPrivateKey(),
	}
}

func (c *testChain) deliver(caller paychan.AccountID, deposit uint64, msg paychan.Msg) (*app.TxResult, error) {
	c.t.Helper()
	tx := &app.Tx{Caller: caller, Deposit: paychan.NewAmount(deposit), Msg: msg}
	if _, err := c.app.Check(tx); err != nil {
		return nil, err
	}
	res, err := c.app.Deliver(tx)
	if err != nil {
		return nil, err
	}
	if failed := res.Failed(); len(failed) != 0 {
		c.t.Fatalf("effect failed: %+v", failed[0].Err)
	}
	if _, err := c.app.Commit(); err != nil {
		c.t.Fatalf("commit: %s", err)
	}
	return res, nil
}

func (c *testChain) mustDeliver(caller paychan.AccountID, deposit uint64, msg paychan.Msg) *app.TxResult {
	c.t.Helper()
	res, err := c.deliver(caller, deposit, msg)
	if err != nil {
		c.t.Fatalf("deliver %s: %+v", msg.Path(), err)
	}
	return res
}

func (c *testChain) balance(acct paychan.AccountID) uint64 {
	c.t.Helper()
	models, err := c.app.Query("/balances", []byte(acct))
	assert.Nil(c.t, err)
	if len(models) == 0 {
		return 0
	}
	var b bank.Balance
	assert.Nil(c.t, codec.Unmarshal(models[0].Value, &b))
	return b.Amount.Big().Uint64()
}

func (c *testChain) channel(id string) *channel.Channel {
	c.t.Helper()
	models, err := c.app.Query("/channels", []byte(id))
	assert.Nil(c.t, err)
	if len(models) == 0 {
		return nil
	}
	var ch channel.Channel
	assert.Nil(c.t, codec.Unmarshal(models[0].Value, &ch))
	return &ch
}

func (c *testChain) ownership() *ownership.Ownership {
	c.t.Helper()
	models, err := c.app.Query("/ownership", nil)
	assert.Nil(c.t, err)
	if len(models) == 0 {
		return nil
	}
	var o ownership.Ownership
	assert.Nil(c.t, codec.Unmarshal(models[0].Value, &o))
	return &o
}

func (c *testChain) open(id string, deposit uint64) {
	c.t.Helper()
	c.mustDeliver(alice, deposit, &channel.OpenChannelMsg{
		ChannelID: id,
		Receiver:  channel.Account{ID: bob, PublicKey: c.bobKey.PublicKey()},
		Sender:    channel.Account{ID: alice, PublicKey: c.aliceKey.PublicKey()},
	})
}

func (c *testChain) claim(key crypto.PrivateKey, id string, spent uint64) channel.SignedClaim {
	c.t.Helper()
	claim, err := channel.SignClaim(key, channel.Claim{ChannelID: id, SpentBalance: paychan.NewAmount(spent)})
	assert.Nil(c.t, err)
	return *claim
}

func TestCooperativeChannel(t *testing.T) {
	c := newTestChain(t)

	c.open("coffee", 100)
	assert.Equal(t, uint64(900), c.balance(alice))
	assert.Equal(t, uint64(100), c.balance(contract))

	// anyone may submit a claim signed by the sender
	c.mustDeliver(bob, 0, &channel.WithdrawMsg{Claim: c.claim(c.aliceKey, "coffee", 40)})
	assert.Equal(t, uint64(36), c.balance(bob))
	assert.Equal(t, uint64(4), c.ownership().Balance.Big().Uint64())

	// replaying the same claim is rejected
	_, err := c.deliver(bob, 0, &channel.WithdrawMsg{Claim: c.claim(c.aliceKey, "coffee", 40)})
	assert.IsErr(t, errors.ErrStaleClaim, err)

	// a claim must be signed by the sender
	_, err = c.deliver(bob, 0, &channel.WithdrawMsg{Claim: c.claim(c.bobKey, "coffee", 90)})
	assert.IsErr(t, errors.ErrInvalidSignature, err)

	c.mustDeliver(bob, 0, &channel.WithdrawAndCloseMsg{
		Withdraw: c.claim(c.aliceKey, "coffee", 60),
		Close:    c.claim(c.bobKey, "coffee", 0),
	})
	assert.Equal(t, uint64(54), c.balance(bob))
	assert.Equal(t, uint64(940), c.balance(alice))
	assert.Equal(t, uint64(6), c.ownership().Balance.Big().Uint64())
	assert.Equal(t, true, c.channel("coffee").IsSettled())

	// settled channel ids are never reused
	_, err = c.deliver(alice, 10, &channel.OpenChannelMsg{
		ChannelID: "coffee",
		Receiver:  channel.Account{ID: bob, PublicKey: c.bobKey.PublicKey()},
		Sender:    channel.Account{ID: alice, PublicKey: c.aliceKey.PublicKey()},
	})
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.Equal(t, uint64(940), c.balance(alice))

	_, err = c.deliver(bob, 0, &ownership.WithdrawMsg{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	c.mustDeliver(owner, 0, &ownership.WithdrawMsg{})
	assert.Equal(t, uint64(6), c.balance(owner))
	assert.Equal(t, uint64(0), c.balance(contract))
}

func TestUnilateralClose(t *testing.T) {
	c := newTestChain(t)

	c.open("rent", 50)
	c.mustDeliver(alice, 25, &channel.TopupMsg{ChannelID: "rent"})
	assert.Equal(t, uint64(925), c.balance(alice))

	_, err := c.deliver(bob, 0, &channel.ForceCloseStartMsg{ChannelID: "rent"})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	c.mustDeliver(alice, 0, &channel.ForceCloseStartMsg{ChannelID: "rent"})

	_, err = c.deliver(alice, 5, &channel.TopupMsg{ChannelID: "rent"})
	assert.IsErr(t, errors.ErrAlreadyClosing, err)
	// the failed topup kept the deposit with its owner
	assert.Equal(t, uint64(925), c.balance(alice))

	// the receiver can still withdraw while the channel is closing
	c.mustDeliver(bob, 0, &channel.WithdrawMsg{Claim: c.claim(c.aliceKey, "rent", 20)})
	assert.Equal(t, uint64(18), c.balance(bob))

	c.clock.SetTime(genesisTime.Add(channel.HardCloseTimeout - time.Second))
	_, err = c.deliver(alice, 0, &channel.ForceCloseFinishMsg{ChannelID: "rent"})
	assert.IsErr(t, errors.ErrTimeoutNotElapsed, err)

	c.clock.SetTime(genesisTime.Add(channel.HardCloseTimeout))
	c.mustDeliver(alice, 0, &channel.ForceCloseFinishMsg{ChannelID: "rent"})
	assert.Equal(t, uint64(980), c.balance(alice))
	assert.Equal(t, uint64(2), c.balance(contract))

	_, err = c.deliver(alice, 0, &channel.ForceCloseFinishMsg{ChannelID: "rent"})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestOwnershipAndMigration(t *testing.T) {
	c := newTestChain(t)
	c.open("stream", 10)

	newOwner := paychan.AccountID("new-owner.near")
	update := &ownership.UpdateMsg{Owner: &newOwner, Fee: paychan.Percent(50)}
	_, err := c.deliver(alice, 0, update)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	c.mustDeliver(contract, 0, update)
	assert.Equal(t, newOwner, c.ownership().Owner)

	c.mustDeliver(bob, 0, &channel.WithdrawMsg{Claim: c.claim(c.aliceKey, "stream", 10)})
	assert.Equal(t, uint64(5), c.balance(bob))

	_, err = c.deliver(contract, 0, &migration.UpgradeSchemaMsg{Pkg: "channel", ToVersion: 3})
	assert.IsErr(t, errors.ErrSchema, err)
	res := c.mustDeliver(contract, 0, &migration.UpgradeSchemaMsg{Pkg: "channel", ToVersion: 2})
	assert.NotNil(t, res.Data)

	// channels and accrued fees survive the migration
	ch := c.channel("stream")
	assert.Equal(t, paychan.NewAmount(10), ch.WithdrawnBalance)
	o := c.ownership()
	assert.Equal(t, newOwner, o.Owner)
	assert.Equal(t, paychan.NewAmount(5), o.Balance)

	c.mustDeliver(newOwner, 0, &ownership.WithdrawMsg{})
	assert.Equal(t, uint64(5), c.balance(newOwner))
	assert.Equal(t, true, c.ownership().Balance.IsZero())
}
