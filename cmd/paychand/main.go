package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

var (
	flagHome = "home"
	varHome  *string
	flagLog  = "log"
	varLog   *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".paychand")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLog = flag.String(flagLog, "info", "log level: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("paychand")
	fmt.Println("        Unidirectional payment channel node")
	fmt.Println("")
	fmt.Println("help                Print this message")
	fmt.Println("init                Create the genesis file and initialize the state")
	fmt.Println("keygen              Generate a receiver key")
	fmt.Println("open                Open a channel, generating its sender key")
	fmt.Println("topup               Add funds to a channel")
	fmt.Println("sign                Sign a payment or a close voucher")
	fmt.Println("withdraw            Withdraw a payment to the receiver")
	fmt.Println("close               Close a channel with a receiver voucher")
	fmt.Println("withdraw-close      Withdraw and close in a single operation")
	fmt.Println("force-close-start   Start the unilateral close of a channel")
	fmt.Println("force-close-finish  Finish the unilateral close of a channel")
	fmt.Println("channel             Print the state of channels")
	fmt.Println("owner               Print the fee owner record")
	fmt.Println("owner-update        Set or remove the fee owner")
	fmt.Println("owner-withdraw      Pay the collected fees to the owner")
	fmt.Println("balance             Print an account balance")
	fmt.Println("migrate             Upgrade a package schema")
	fmt.Println("version             Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.paychand")
  -log string
        log level: debug, info, error or none (default "info")

Run "paychand <command> -h" to list the flags of a command.`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := newLogger(*varLog)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]
	home := *varHome

	switch cmd {
	case "help":
		helpMessage()
	case "version":
		fmt.Println(paychan.Version())
	case "init":
		err = initCmd(logger, home, rest)
	case "keygen":
		err = keygenCmd(home, rest)
	case "sign":
		err = signCmd(home, rest)
	case "open":
		err = openCmd(logger, home, rest)
	case "topup":
		err = topupCmd(logger, home, rest)
	case "withdraw":
		err = withdrawCmd(logger, home, rest)
	case "close":
		err = closeCmd(logger, home, rest)
	case "withdraw-close":
		err = withdrawCloseCmd(logger, home, rest)
	case "force-close-start":
		err = forceCloseStartCmd(logger, home, rest)
	case "force-close-finish":
		err = forceCloseFinishCmd(logger, home, rest)
	case "channel":
		err = channelCmd(logger, home, rest)
	case "owner":
		err = ownerCmd(logger, home, rest)
	case "owner-update":
		err = ownerUpdateCmd(logger, home, rest)
	case "owner-withdraw":
		err = ownerWithdrawCmd(logger, home, rest)
	case "balance":
		err = balanceCmd(logger, home, rest)
	case "migrate":
		err = migrateCmd(logger, home, rest)
	default:
		err = errors.Wrapf(errors.ErrInput, "unknown command: %s", cmd)
	}

	if err != nil {
		// Only registered errors are shown in full, unless debugging.
		debug := *varLog == "debug"
		code, msg := errors.Info(errors.Redact(err, debug), debug)
		fmt.Printf("Error (code %d): %s\n", code, msg)
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).
		With("module", "paychand")
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}
