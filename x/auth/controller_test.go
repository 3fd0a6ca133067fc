package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/store"
	"github.com/iov-one/paychan/weavetest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCallerAuth(t *testing.T) {
	var auth CallerAuth

	ctx := context.Background()
	assert.Equal(t, 0, len(auth.GetAccounts(ctx)))
	assert.Equal(t, false, auth.HasAccount(ctx, "alice.near"))

	ctx = paychan.WithCaller(ctx, "alice.near")
	assert.Equal(t, []paychan.AccountID{"alice.near"}, auth.GetAccounts(ctx))
	assert.Equal(t, true, auth.HasAccount(ctx, "alice.near"))
	assert.Equal(t, false, auth.HasAccount(ctx, "bob.near"))
}

func TestRequireContract(t *testing.T) {
	db := store.MemStore()
	var auth CallerAuth
	ctx := paychan.WithCaller(context.Background(), "paychan.near")

	_, err := ContractAccount(db)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.IsErr(t, errors.ErrNotFound, RequireContract(ctx, db, auth))

	assert.Nil(t, SaveConfiguration(db, &Configuration{Contract: "paychan.near"}))
	assert.Nil(t, RequireContract(ctx, db, auth))

	other := paychan.WithCaller(context.Background(), "mallory.near")
	assert.IsErr(t, errors.ErrUnauthorized, RequireContract(other, db, auth))

	err = SaveConfiguration(db, &Configuration{Contract: "!"})
	assert.FieldError(t, err, "Contract", errors.ErrInput)
}

func TestGenesis(t *testing.T) {
	Convey("Test genesis initialization", t, func() {
		db := store.MemStore()
		gen := Initializer{}

		Convey("fails without config", func() {
			err := gen.FromGenesis(paychan.Options{}, db)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})

		Convey("stores the contract account", func() {
			var opts paychan.Options
			err := json.Unmarshal([]byte(`{"conf": {"auth": {"contract": "paychan.near"}}}`), &opts)
			So(err, ShouldBeNil)
			So(gen.FromGenesis(opts, db), ShouldBeNil)

			contract, err := ContractAccount(db)
			So(err, ShouldBeNil)
			So(contract, ShouldEqual, paychan.AccountID("paychan.near"))
		})

		Convey("rejects an invalid account", func() {
			var opts paychan.Options
			err := json.Unmarshal([]byte(`{"conf": {"auth": {"contract": "A"}}}`), &opts)
			So(err, ShouldBeNil)
			err = gen.FromGenesis(opts, db)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})
	})
}
