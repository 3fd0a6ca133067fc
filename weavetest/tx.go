package weavetest

import "github.com/iov-one/paychan"

// Tx represents a paychan transaction.
// Transaction represents a single message that is to be processed within this
// transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg paychan.Msg
	// Deposit is the native value attached to the transaction.
	Deposit paychan.Amount
	// Err if set is returned by any method call.
	Err error
}

var _ paychan.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (paychan.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) GetDeposit() paychan.Amount {
	return tx.Deposit
}

// Msg represents a paychan message.
// Message is a request processed by paychan within a single transaction.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by any method call.
	Err error
}

var _ paychan.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
