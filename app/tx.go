package app

import (
	"github.com/iov-one/paychan"
)

// Tx is the envelope a single operation is submitted in. The host, not the
// message, declares who the caller is and how many tokens were attached.
type Tx struct {
	Caller  paychan.AccountID
	Deposit paychan.Amount
	Msg     paychan.Msg
}

var _ paychan.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (paychan.Msg, error) {
	return tx.Msg, nil
}

func (tx *Tx) GetDeposit() paychan.Amount {
	return tx.Deposit
}
