package main

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/codec"
	"github.com/iov-one/paychan/crypto"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/channel"
)

func openCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	caller := fs.String("caller", "", "sender account, pays the deposit")
	receiver := fs.String("receiver", "", "receiver account")
	receiverKey := fs.String("receiver-key", "", "receiver public key")
	deposit := fs.String("deposit", "", "amount escrowed in the channel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amount, err := parseAmount("deposit", *deposit)
	if err != nil {
		return err
	}
	pub, err := crypto.ParsePublicKey(*receiverKey)
	if err != nil {
		return errors.Wrap(err, "-receiver-key")
	}

	cli, err := openClient(home)
	if err != nil {
		return err
	}
	msg, err := cli.NewChannel(paychan.AccountID(*caller), channel.Account{
		ID:        paychan.AccountID(*receiver),
		PublicKey: pub,
	}, amount)
	if err != nil {
		return err
	}

	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	if _, err := n.submit(paychan.AccountID(*caller), amount, msg); err != nil {
		if delErr := cli.Storage().Delete(msg.ChannelID); delErr != nil {
			logger.Error("cannot remove channel record", "id", msg.ChannelID, "err", delErr)
		}
		return err
	}
	fmt.Println(msg.ChannelID)
	return nil
}

func topupCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("topup", flag.ExitOnError)
	caller := fs.String("caller", "", "account paying the amount")
	id := fs.String("channel", "", "channel id")
	amount := fs.String("amount", "", "amount added to the channel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	value, err := parseAmount("amount", *amount)
	if err != nil {
		return err
	}
	msg := &channel.TopupMsg{ChannelID: *id}

	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	if _, err := n.submit(paychan.AccountID(*caller), value, msg); err != nil {
		return err
	}

	// Only the sender keeps a local record. Raise its payment limit.
	cli, err := openClient(home)
	if err != nil {
		return err
	}
	if _, err := cli.Topup(*id, value); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}

// parseClaim reads a signed claim as printed by the sign command.
func parseClaim(name, raw string) (*channel.SignedClaim, error) {
	if err := requireFlag(name, raw); err != nil {
		return nil, err
	}
	var claim channel.SignedClaim
	if err := json.Unmarshal([]byte(raw), &claim); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "-%s: %s", name, err)
	}
	return &claim, nil
}

func withdrawCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation")
	raw := fs.String("claim", "", "claim signed by the sender, in JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	claim, err := parseClaim("claim", *raw)
	if err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &channel.WithdrawMsg{Claim: *claim})
	return err
}

func closeCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("close", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation")
	raw := fs.String("claim", "", "zero spend voucher signed by the receiver, in JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	claim, err := parseClaim("claim", *raw)
	if err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &channel.CloseMsg{Claim: *claim})
	return err
}

func withdrawCloseCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("withdraw-close", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation")
	rawWithdraw := fs.String("withdraw", "", "claim signed by the sender, in JSON")
	rawClose := fs.String("close", "", "zero spend voucher signed by the receiver, in JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	withdraw, err := parseClaim("withdraw", *rawWithdraw)
	if err != nil {
		return err
	}
	closing, err := parseClaim("close", *rawClose)
	if err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &channel.WithdrawAndCloseMsg{
		Withdraw: *withdraw,
		Close:    *closing,
	})
	return err
}

func forceCloseStartCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("force-close-start", flag.ExitOnError)
	caller := fs.String("caller", "", "sender account")
	id := fs.String("channel", "", "channel id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &channel.ForceCloseStartMsg{ChannelID: *id})
	return err
}

func forceCloseFinishCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("force-close-finish", flag.ExitOnError)
	caller := fs.String("caller", "", "account submitting the operation")
	id := fs.String("channel", "", "channel id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()
	_, err = n.submit(paychan.AccountID(*caller), paychan.Amount{}, &channel.ForceCloseFinishMsg{ChannelID: *id})
	return err
}

// channelCmd prints a single channel, or all channels with given id
// prefix.
func channelCmd(logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("channel", flag.ExitOnError)
	id := fs.String("channel", "", "channel id")
	prefix := fs.Bool("prefix", false, "treat the id as a prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := openChain(logger, home)
	if err != nil {
		return err
	}
	defer n.Close()

	path := "/channels"
	if *prefix {
		path += "?prefix"
	}
	models, err := n.app.Query(path, []byte(*id))
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "channel %q", *id)
	}
	type entry struct {
		Key     string           `json:"key"`
		Channel *channel.Channel `json:"channel"`
	}
	entries := make([]entry, 0, len(models))
	for _, m := range models {
		var ch channel.Channel
		if err := codec.Unmarshal(m.Value, &ch); err != nil {
			return err
		}
		entries = append(entries, entry{Key: string(m.Key), Channel: &ch})
	}
	return printJSON(entries)
}
