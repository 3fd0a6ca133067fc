package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/bank"
)

func TestAccountsFlag(t *testing.T) {
	var f accountsFlag
	require.NoError(t, f.Set("alice.near=100"))
	require.NoError(t, f.Set("bob.near=0"))
	assert.Equal(t, "alice.near=100,bob.near=0", f.String())

	assert.Error(t, f.Set("alice.near"))
	assert.Error(t, f.Set("alice.near=-1"))
	assert.Len(t, f, 2)
}

func balanceOf(t *testing.T, home string, acct paychan.AccountID) paychan.Amount {
	t.Helper()
	n, err := openChain(log.NewNopLogger(), home)
	require.NoError(t, err)
	defer n.Close()
	models, err := n.app.Query("/balances", []byte(acct))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var b bank.Balance
	require.NoError(t, codec.Unmarshal(models[0].Value, &b))
	return b.Amount
}

func TestCommandFlow(t *testing.T) {
	home, err := ioutil.TempDir("", "paychand-")
	require.NoError(t, err)
	defer os.RemoveAll(home)
	logger := log.NewNopLogger()

	err = balanceCmd(logger, home, []string{"-account", "alice.near"})
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, initCmd(logger, home, []string{
		"-contract", "paychan.near",
		"-account", "alice.near=1000",
	}))
	_, err = os.Stat(filepath.Join(home, genesisFile))
	require.NoError(t, err)

	// a second init reuses the genesis file and fails on the chain id
	err = initCmd(logger, home, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	require.NoError(t, keygenCmd(home, []string{"-name", "bob"}))
	bobKey, err := loadKey(home, "bob")
	require.NoError(t, err)

	require.NoError(t, openCmd(logger, home, []string{
		"-caller", "alice.near",
		"-receiver", "bob.near",
		"-receiver-key", bobKey.PublicKey().String(),
		"-deposit", "100",
	}))
	cli, err := openClient(home)
	require.NoError(t, err)
	infos, err := cli.Storage().List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	id := infos[0].ID

	claim, err := cli.CreatePayment(id, paychan.NewAmount(30))
	require.NoError(t, err)
	raw, err := json.Marshal(claim)
	require.NoError(t, err)
	require.NoError(t, withdrawCmd(logger, home, []string{"-caller", "bob.near", "-claim", string(raw)}))

	voucher, err := cli.CloseVoucher(id, bobKey)
	require.NoError(t, err)
	raw, err = json.Marshal(voucher)
	require.NoError(t, err)
	require.NoError(t, closeCmd(logger, home, []string{"-caller", "alice.near", "-claim", string(raw)}))

	assert.Equal(t, paychan.NewAmount(970), balanceOf(t, home, "alice.near"))
	assert.Equal(t, paychan.NewAmount(30), balanceOf(t, home, "bob.near"))

	err = forceCloseStartCmd(logger, home, []string{"-caller", "alice.near", "-channel", id})
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = loadKey(home, "carol")
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.True(t, errors.ErrDuplicate.Is(keygenCmd(home, []string{"-name", "bob"})))
}
