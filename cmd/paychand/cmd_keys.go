package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
)

func keyPath(home, name string) string {
	return filepath.Join(home, keysDir, name+".key")
}

// keygenCmd generates a key for a receiver and prints its public key.
// Sender keys are generated per channel by the open command.
func keygenCmd(home string, args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	name := fs.String("name", "", "name of the key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag("name", *name); err != nil {
		return err
	}
	path := keyPath(home, *name)
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "key %q", *name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	key := crypto.GenPrivateKey()
	if err := ioutil.WriteFile(path, []byte(key.String()), 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	fmt.Println(key.PublicKey())
	return nil
}

func loadKey(home, name string) (crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(keyPath(home, name))
	if err != nil {
		if os.IsNotExist(err) {
			return crypto.PrivateKey{}, errors.Wrapf(errors.ErrNotFound, "key %q", name)
		}
		return crypto.PrivateKey{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return crypto.ParsePrivateKey(strings.TrimSpace(string(raw)))
}

// signCmd prints a signed claim. By default it signs, with the channel
// sender key, a payment of given amount on top of what was paid so far.
// With -close it signs the receiver voucher closing the channel.
func signCmd(home string, args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	id := fs.String("channel", "", "channel id")
	amount := fs.String("amount", "", "payment amount")
	closing := fs.Bool("close", false, "sign a close voucher instead of a payment")
	keyName := fs.String("key", "", "receiver key name, required with -close")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cli, err := openClient(home)
	if err != nil {
		return err
	}

	if *closing {
		if err := requireFlag("key", *keyName); err != nil {
			return err
		}
		key, err := loadKey(home, *keyName)
		if err != nil {
			return err
		}
		voucher, err := cli.CloseVoucher(*id, key)
		if err != nil {
			return err
		}
		return printJSON(voucher)
	}

	value, err := parseAmount("amount", *amount)
	if err != nil {
		return err
	}
	claim, err := cli.CreatePayment(*id, value)
	if err != nil {
		return err
	}
	return printJSON(claim)
}
