package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/app"
	"github.com/iov-one/paychan/client"
	pcapp "github.com/iov-one/paychan/cmd/paychand/app"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/store/iavl"
)

const (
	genesisFile = "genesis.json"
	dataDir     = "data"
	channelsDir = "channels"
	keysDir     = "keys"
)

// node is the local state all commands operate on.
type node struct {
	app    *app.Application
	store  *iavl.CommitStore
	logger log.Logger
}

func openNode(logger log.Logger, home string) (*node, error) {
	kv, err := pcapp.CommitKVStore(filepath.Join(home, dataDir, "paychan.db"))
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	a, err := pcapp.Application(kv, clock.NewDefaultClock(), logger)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return &node{app: a, store: kv, logger: logger}, nil
}

// openChain opens the node and ensures the chain was initialized.
func openChain(logger log.Logger, home string) (*node, error) {
	n, err := openNode(logger, home)
	if err != nil {
		return nil, err
	}
	if n.app.ChainID() == "" {
		n.Close()
		return nil, errors.Wrapf(errors.ErrState, "no chain in %s, run init first", home)
	}
	return n, nil
}

func (n *node) Close() {
	n.store.Close()
}

// submit checks, delivers and commits a single operation.
func (n *node) submit(caller paychan.AccountID, deposit paychan.Amount, msg paychan.Msg) (*app.TxResult, error) {
	tx := &app.Tx{Caller: caller, Deposit: deposit, Msg: msg}
	if _, err := n.app.Check(tx); err != nil {
		return nil, err
	}
	res, err := n.app.Deliver(tx)
	if err != nil {
		return nil, err
	}
	if _, err := n.app.Commit(); err != nil {
		return nil, err
	}
	for _, e := range res.Effects {
		if e.Err != nil {
			fmt.Printf("effect failed: %s: %s\n", e.Description, e.Err)
		} else {
			fmt.Println(e.Description)
		}
	}
	return res, nil
}

func openClient(home string) (*client.Client, error) {
	store, err := client.NewStorage(filepath.Join(home, channelsDir))
	if err != nil {
		return nil, err
	}
	return client.New(store, crypto.Ed25519Verifier{}), nil
}

func printJSON(v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(raw))
	return err
}

func parseAmount(name, value string) (paychan.Amount, error) {
	if value == "" {
		return paychan.Amount{}, errors.Wrapf(errors.ErrInput, "-%s is required", name)
	}
	a, err := paychan.ParseAmount(value)
	if err != nil {
		return paychan.Amount{}, errors.Wrapf(err, "-%s", name)
	}
	return a, nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return errors.Wrapf(errors.ErrInput, "-%s is required", name)
	}
	return nil
}
