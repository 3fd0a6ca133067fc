package bank

import (
	"fmt"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
	"github.com/iov-one/paychan/x/auth"
)

// TransferEffect moves tokens held by the contract account to the
// recipient. It is returned by handlers and executed by the host after the
// operation that produced it succeeded.
type TransferEffect struct {
	To     paychan.AccountID
	Amount paychan.Amount
	ctrl   Controller
}

var _ paychan.Effect = (*TransferEffect)(nil)

// Execute performs the transfer. A zero amount transfer does nothing.
func (e *TransferEffect) Execute(ctx paychan.Context, db paychan.KVStore) error {
	if e.Amount.IsZero() {
		return nil
	}
	contract, err := auth.ContractAccount(db)
	if err != nil {
		return err
	}
	if err := e.ctrl.MoveCoins(db, contract, e.To, e.Amount); err != nil {
		return errors.Wrapf(err, "transfer %s to %s", e.Amount, e.To)
	}
	return nil
}

func (e *TransferEffect) String() string {
	return fmt.Sprintf("transfer %s to %s", e.Amount, e.To)
}

// Transferer creates transfer effects executed with given controller.
type Transferer struct {
	ctrl Controller
}

var _ paychan.Transferer = Transferer{}

// NewTransferer returns a transferer moving funds with given controller.
func NewTransferer(ctrl Controller) Transferer {
	return Transferer{ctrl: ctrl}
}

// Transfer returns an effect moving given amount from the contract account
// to the recipient.
func (t Transferer) Transfer(to paychan.AccountID, amount paychan.Amount) paychan.Effect {
	return &TransferEffect{
		To:     to,
		Amount: amount,
		ctrl:   t.ctrl,
	}
}

// CaptureDeposit moves the deposit attached to the transaction from the
// caller to the contract account. It returns the captured amount.
func CaptureDeposit(ctx paychan.Context, db paychan.KVStore, ctrl Controller, tx paychan.Tx) (paychan.Amount, error) {
	deposit := tx.GetDeposit()
	if deposit.IsZero() {
		return deposit, nil
	}
	caller, ok := paychan.GetCaller(ctx)
	if !ok {
		return paychan.Amount{}, errors.Wrap(errors.ErrUnauthorized, "deposit requires a caller")
	}
	contract, err := auth.ContractAccount(db)
	if err != nil {
		return paychan.Amount{}, err
	}
	if err := ctrl.MoveCoins(db, caller, contract, deposit); err != nil {
		return paychan.Amount{}, errors.Wrap(err, "capture deposit")
	}
	return deposit, nil
}
